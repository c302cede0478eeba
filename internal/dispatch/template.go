package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"

	"reservas/internal/config"

	"github.com/rs/zerolog"
)

// TemplateSource supplies the HTML template for the confirmation email.
// Three interchangeable strategies exist: the built-in inline template, a
// file on disk, and a remotely hosted template fetched per dispatch. The
// deployment picks one via config.
type TemplateSource interface {
	HTML(ctx context.Context) string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z]+)\s*\}\}`)

// ApplyTemplate replaces every {{ key }} placeholder with the matching field
// value. Keys missing from the field map substitute an empty string.
func ApplyTemplate(template string, fields map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		return fields[key]
	})
}

// StaticTemplate serves a fixed template string.
type StaticTemplate struct {
	html string
}

// NewStaticTemplate wraps the given template, or the built-in inline
// template when empty.
func NewStaticTemplate(html string) *StaticTemplate {
	if html == "" {
		html = inlineTemplate
	}
	return &StaticTemplate{html: html}
}

func (t *StaticTemplate) HTML(ctx context.Context) string {
	return t.html
}

// RemoteTemplate fetches the template from a URL on every dispatch so the
// design team can iterate without redeploying. Any fetch problem falls back
// to the inline template; sending the confirmation matters more than the
// markup being fresh.
type RemoteTemplate struct {
	url    string
	client *http.Client
	logger *zerolog.Logger
}

func NewRemoteTemplate(url string, logger *zerolog.Logger) *RemoteTemplate {
	return &RemoteTemplate{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (t *RemoteTemplate) HTML(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		t.logger.Warn().Err(err).Str("url", t.url).Msg("No se pudo cargar la plantilla externa")
		return inlineTemplate
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn().Err(err).Str("url", t.url).Msg("No se pudo cargar la plantilla externa")
		return inlineTemplate
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn().Int("status", resp.StatusCode).Str("url", t.url).Msg("No se pudo cargar la plantilla externa")
		return inlineTemplate
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.logger.Warn().Err(err).Str("url", t.url).Msg("No se pudo cargar la plantilla externa")
		return inlineTemplate
	}

	return string(raw)
}

// NewTemplateSource picks the strategy for this deployment: remote URL wins,
// then template file, then the inline default. A configured but unreadable
// file is a startup error, not something to discover on the first booking.
func NewTemplateSource(cfg config.SendGridConfig, logger *zerolog.Logger) (TemplateSource, error) {
	if cfg.TemplateURL != "" {
		return NewRemoteTemplate(cfg.TemplateURL, logger), nil
	}
	if cfg.TemplateFile != "" {
		raw, err := os.ReadFile(cfg.TemplateFile)
		if err != nil {
			return nil, fmt.Errorf("read template file: %w", err)
		}
		return NewStaticTemplate(string(raw)), nil
	}
	return NewStaticTemplate(""), nil
}

// inlineTemplate is the default confirmation markup, shared as the fallback
// by every strategy.
const inlineTemplate = `<!DOCTYPE html>
<html lang="es">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Reserva confirmada · The Neva Group</title>
  </head>
  <body style="margin:0;padding:0;background:#0c0a09;color:#e7e5e4;font-family:Helvetica,Arial,sans-serif;">
    <div style="width:100%;padding:32px 0;background:#0c0a09;">
      <table role="presentation" width="100%" style="max-width:620px;margin:0 auto;background:#ffffff;border:1px solid #e7e5e4;border-radius:18px;overflow:hidden;color:#1c1917;">
        <tr>
          <td style="padding:28px 32px 12px;">
            <div style="font-weight:700;letter-spacing:0.08em;text-transform:uppercase;font-size:13px;color:#57534e;">The Neva Group</div>
            <div style="margin:14px 0 4px;font-size:24px;color:#1c1917;font-weight:700;">Reserva confirmada</div>
            <p style="margin:0;font-size:14px;color:#57534e;">Hemos bloqueado tu sesión. Aquí tienes el resumen:</p>
          </td>
        </tr>
        <tr>
          <td style="padding:0;">
            <div style="width:100%;height:180px;background:url('https://reservas.thenevagroup.com/ReservaConfirmada.svg') center/cover no-repeat;line-height:0;"></div>
          </td>
        </tr>
        <tr>
          <td style="padding:28px 32px 0;">
            <p style="margin:0 0 16px;font-size:14px;line-height:1.7;color:#1c1917;text-align:justify;">
              Hola <strong style="color:#0f172a;">{{name}}</strong>, confirmamos tu reserva para el servicio <strong style="color:#0f172a;">{{serviceTitle}}</strong>
              ({{serviceDescription}}). Hemos bloqueado la agenda para el <strong style="color:#0f172a;">{{date}}</strong> a las <strong style="color:#0f172a;">{{time}}</strong>.
            </p>
            <p style="margin:0 0 16px;font-size:14px;line-height:1.7;color:#1c1917;text-align:justify;">
              Usaremos el correo <strong style="color:#0f172a;">{{email}}</strong> para enviarte la invitación y los detalles logísticos. Si necesitas
              mover la fecha u hora, responde a este mensaje y lo ajustamos.
            </p>
            <p style="margin:0 0 24px;font-size:14px;line-height:1.7;color:#1c1917;text-align:justify;">
              Notas del proyecto: {{notes}}
            </p>
          </td>
        </tr>
        <tr>
          <td style="padding:0 32px 32px;">
            <a href="{{ctaUrl}}" target="_blank" rel="noopener noreferrer"
              style="display:inline-block;padding:14px 22px;background:#1c1917;color:#f5f5f4;font-weight:700;font-size:15px;border-radius:10px;border:1px solid #1c1917;letter-spacing:0.02em;text-decoration:none;">
              Ver detalles de la reserva
            </a>
          </td>
        </tr>
        <tr>
          <td style="padding:0 32px 26px;font-size:12px;color:#57534e;line-height:1.6;">
            The Neva Group · Reserva de sesión inicial.<br />
            Si necesitas mover la fecha u hora, responde a este correo o contáctanos en WhatsApp.
          </td>
        </tr>
      </table>
    </div>
  </body>
</html>`
