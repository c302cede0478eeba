package dispatch

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"reservas/internal/events"
	"reservas/internal/models"
	"reservas/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	calls int
	last  EmailMessage
	err   error
}

func (f *fakeSender) Send(ctx context.Context, msg EmailMessage) error {
	f.calls++
	f.last = msg
	return f.err
}

func newTestDispatcher(t *testing.T, sender *fakeSender) (*Dispatcher, *repository.MemorySessionRepository, *events.EventBus) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	sessions := repository.NewMemorySessionRepository(time.Hour)
	bus := events.NewEventBus()
	d := New(sender, NewStaticTemplate(""), sessions, bus, models.DefaultCTAURL, &logger)
	return d, sessions, bus
}

func completeSession() *models.Session {
	date := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	return &models.Session{
		ID:     "sess-1",
		Step:   models.StepSummary,
		Status: models.StatusIdle,
		Draft: models.BookingDraft{
			ServiceID:    "esencial",
			SelectedDate: &date,
			SelectedTime: "11:00",
			Name:         "Ana",
			Email:        "ana@x.com",
		},
	}
}

func esencial() models.Service {
	return models.DefaultServices()[0]
}

func TestConfirmPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Session)
	}{
		{"missing email", func(s *models.Session) { s.Draft.Email = "" }},
		{"missing name", func(s *models.Session) { s.Draft.Name = "" }},
		{"missing date", func(s *models.Session) { s.Draft.SelectedDate = nil }},
		{"missing time", func(s *models.Session) { s.Draft.SelectedTime = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			d, sessions, _ := newTestDispatcher(t, sender)

			sess := completeSession()
			tt.mutate(sess)
			d.Confirm(context.Background(), sess, esencial())

			assert.Equal(t, 0, sender.calls, "send capability must not be invoked")
			assert.Equal(t, models.StatusFailed, sess.Status)
			assert.Equal(t, models.ErrMsgMissingData, sess.LastError)

			stored, err := sessions.Get(context.Background(), sess.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, models.StatusFailed, stored.Status)
		})
	}
}

func TestConfirmSuccess(t *testing.T) {
	sender := &fakeSender{}
	d, sessions, bus := newTestDispatcher(t, sender)

	var published *events.Event
	bus.Subscribe(events.EventConfirmationSent, func(e *events.Event) error {
		published = e
		return nil
	})

	sess := completeSession()
	d.Confirm(context.Background(), sess, esencial())

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, models.StatusSent, sess.Status)
	assert.Empty(t, sess.LastError)

	assert.Equal(t, "ana@x.com", sender.last.To)
	assert.Equal(t, "Reserva confirmada - Paquete Esencial", sender.last.Subject)
	assert.Contains(t, sender.last.HTML, "Ana")
	assert.Contains(t, sender.last.HTML, "sábado, 10 may")
	assert.Contains(t, sender.last.HTML, "11:00")
	// Blank notes resolve to the documented default, not an empty string.
	assert.Contains(t, sender.last.HTML, models.DefaultNotes)
	assert.Contains(t, sender.last.Text, models.DefaultNotes)
	assert.NotContains(t, sender.last.HTML, "{{")

	stored, err := sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, stored.Status)

	require.NotNil(t, published, "confirmation event published")
}

func TestConfirmTransportFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("provider rejected the message")}
	d, _, _ := newTestDispatcher(t, sender)

	sess := completeSession()
	draftBefore := sess.Draft

	d.Confirm(context.Background(), sess, esencial())

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, models.StatusFailed, sess.Status)
	assert.Equal(t, models.ErrMsgSendFailed, sess.LastError)
	// The raw provider error never surfaces.
	assert.NotContains(t, sess.LastError, "provider rejected")
	assert.Equal(t, draftBefore, sess.Draft, "draft unchanged on failure")

	// Retry is user-initiated: a second confirm goes out again.
	sender.err = nil
	d.Confirm(context.Background(), sess, esencial())
	assert.Equal(t, 2, sender.calls)
	assert.Equal(t, models.StatusSent, sess.Status)
}

func TestConfirmRefusedWhileSending(t *testing.T) {
	sender := &fakeSender{}
	d, _, _ := newTestDispatcher(t, sender)

	sess := completeSession()
	sess.Status = models.StatusSending

	d.Confirm(context.Background(), sess, esencial())

	assert.Equal(t, 0, sender.calls)
	assert.Equal(t, models.StatusSending, sess.Status)
}

func TestConfirmRefusedAfterSent(t *testing.T) {
	sender := &fakeSender{}
	d, _, _ := newTestDispatcher(t, sender)

	sess := completeSession()
	d.Confirm(context.Background(), sess, esencial())
	require.Equal(t, models.StatusSent, sess.Status)

	// Dispatch is at-most-once per successful confirmation.
	d.Confirm(context.Background(), sess, esencial())
	d.Confirm(context.Background(), sess, esencial())
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, models.StatusSent, sess.Status)
}
