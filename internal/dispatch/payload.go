package dispatch

import (
	"fmt"
	"strings"
	"time"

	"reservas/internal/models"
)

// Payload is the read-only projection of a booking draft plus its resolved
// service, exactly the field set the email template consumes. Built per
// dispatch, never stored.
type Payload struct {
	Name               string
	Email              string
	ServiceTitle       string
	ServiceDescription string
	Date               string
	Time               string
	Notes              string
	CTAURL             string
}

// BuildPayload projects the draft for the template. Blank notes are replaced
// by the documented default text here, so every body variant sees the same
// substitution.
func BuildPayload(draft models.BookingDraft, svc models.Service, ctaURL string) Payload {
	notes := strings.TrimSpace(draft.Notes)
	if notes == "" {
		notes = models.DefaultNotes
	}

	date := ""
	if draft.SelectedDate != nil {
		date = FormatDateES(*draft.SelectedDate)
	}

	return Payload{
		Name:               draft.Name,
		Email:              draft.Email,
		ServiceTitle:       svc.Title,
		ServiceDescription: svc.Description,
		Date:               date,
		Time:               draft.SelectedTime,
		Notes:              notes,
		CTAURL:             ctaURL,
	}
}

// Fields returns the template substitution map. Keys match the {{...}}
// placeholders of the hosted and inline templates.
func (p Payload) Fields() map[string]string {
	return map[string]string{
		"name":               p.Name,
		"email":              p.Email,
		"serviceTitle":       p.ServiceTitle,
		"serviceDescription": p.ServiceDescription,
		"date":               p.Date,
		"time":               p.Time,
		"notes":              p.Notes,
		"ctaUrl":             p.CTAURL,
	}
}

// Subject builds the confirmation subject line, falling back to the brand
// name when no service title is resolved.
func Subject(serviceTitle string) string {
	if serviceTitle == "" {
		serviceTitle = models.BrandName
	}
	return models.SubjectPrefix + serviceTitle
}

// TextBody renders the plain-text fallback from the same fields as the HTML
// body.
func TextBody(p Payload) string {
	return strings.Join([]string{
		"Reserva confirmada",
		"",
		"Servicio: " + p.ServiceTitle,
		"Fecha: " + p.Date + " " + p.Time,
		"Contacto: " + p.Name + " (" + p.Email + ")",
		"Notas: " + p.Notes,
	}, "\n")
}

var weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var monthsES = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// FormatDateES renders the long Spanish display form used in the email:
// weekday, two-digit day and abbreviated month ("sábado, 10 may"). The
// stdlib has no locale data, so the lookup tables live here.
func FormatDateES(t time.Time) string {
	return fmt.Sprintf("%s, %02d %s", weekdaysES[t.Weekday()], t.Day(), monthsES[t.Month()-1])
}
