package dispatch

import (
	"context"

	"reservas/internal/domain"
	"reservas/internal/events"
	"reservas/internal/metrics"
	"reservas/internal/models"

	"github.com/rs/zerolog"
)

// Dispatcher turns a completed booking draft into one confirmation email and
// tracks the outcome on the session. Invariants it enforces:
//   - at most one send in flight per session (the sending status is the mutex)
//   - at most one successful send per confirmation (sent refuses re-dispatch
//     until a navigation clears the status)
//   - no provider error ever reaches the caller raw; the session carries a
//     user-facing message instead.
type Dispatcher struct {
	sender    EmailSender
	templates TemplateSource
	sessions  domain.SessionRepository
	bus       domain.EventPublisher
	ctaURL    string
	logger    *zerolog.Logger
}

func New(
	sender EmailSender,
	templates TemplateSource,
	sessions domain.SessionRepository,
	bus domain.EventPublisher,
	ctaURL string,
	logger *zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		templates: templates,
		sessions:  sessions,
		bus:       bus,
		ctaURL:    ctaURL,
		logger:    logger,
	}
}

// Confirm dispatches the confirmation email for the session's draft. The
// outcome lands in the session's Status/LastError; callers read it from
// there. Repeated calls while a send is in flight, or after a successful
// send, are ignored.
func (d *Dispatcher) Confirm(ctx context.Context, sess *models.Session, svc models.Service) {
	switch sess.Status {
	case models.StatusSending:
		d.logger.Debug().Str("session_id", sess.ID).Msg("confirm ignored: dispatch in flight")
		metrics.IncEmail("refused")
		return
	case models.StatusSent:
		d.logger.Debug().Str("session_id", sess.ID).Msg("confirm ignored: already confirmed")
		metrics.IncEmail("refused")
		return
	}

	draft := sess.Draft
	if draft.Email == "" || draft.Name == "" || draft.SelectedDate == nil || draft.SelectedTime == "" {
		// The summary step is always "valid", so an incomplete draft can
		// reach this point; the guard lives here, not in the wizard.
		sess.Status = models.StatusFailed
		sess.LastError = models.ErrMsgMissingData
		sess.Touch()
		d.persist(ctx, sess)
		metrics.IncEmail("precondition_failed")
		d.publishOutcome(sess, svc, "missing data for confirmation")
		return
	}

	sess.Status = models.StatusSending
	sess.LastError = ""
	sess.Touch()
	d.persist(ctx, sess)

	payload := BuildPayload(draft, svc, d.ctaURL)
	msg := EmailMessage{
		To:      payload.Email,
		ToName:  payload.Name,
		Subject: Subject(payload.ServiceTitle),
		Text:    TextBody(payload),
		HTML:    ApplyTemplate(d.templates.HTML(ctx), payload.Fields()),
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		// Диагностика остаётся в логах, наружу уходит общий текст
		d.logger.Error().Err(err).Str("session_id", sess.ID).Str("to", payload.Email).Msg("confirmation dispatch failed")
		sess.Status = models.StatusFailed
		sess.LastError = models.ErrMsgSendFailed
		metrics.IncEmail("failed")
	} else {
		sess.Status = models.StatusSent
		sess.LastError = ""
		metrics.IncEmail("sent")
	}

	sess.Touch()
	d.persist(ctx, sess)
	d.publishOutcome(sess, svc, "")
}

func (d *Dispatcher) persist(ctx context.Context, sess *models.Session) {
	if d.sessions == nil {
		return
	}
	if err := d.sessions.Save(ctx, sess); err != nil {
		d.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to persist session status")
	}
}

func (d *Dispatcher) publishOutcome(sess *models.Session, svc models.Service, reason string) {
	if d.bus == nil {
		return
	}

	eventType := events.EventConfirmationSent
	if sess.Status != models.StatusSent {
		eventType = events.EventConfirmationFailed
	}

	payload := events.ConfirmationEventPayload{
		SessionID:    sess.ID,
		ServiceID:    sess.Draft.ServiceID,
		ServiceTitle: svc.Title,
		Email:        sess.Draft.Email,
		Time:         sess.Draft.SelectedTime,
		Status:       sess.Status,
		Reason:       reason,
	}
	if sess.Draft.SelectedDate != nil {
		payload.Date = sess.Draft.SelectedDate.Format("2006-01-02")
	}

	if err := d.bus.PublishJSON(eventType, payload); err != nil {
		d.logger.Warn().Err(err).Msg("failed to publish confirmation event")
	}
}
