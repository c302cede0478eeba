package wizard

import (
	"testing"
	"time"

	"reservas/internal/catalog"
	"reservas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWizard() *Wizard {
	return New(catalog.New(nil, nil))
}

func TestNewSession(t *testing.T) {
	w := newTestWizard()
	sess := w.NewSession("s1")

	assert.Equal(t, models.StepPlan, sess.Step)
	assert.Equal(t, "esencial", sess.Draft.ServiceID, "fresh draft starts on the first service")
	assert.Nil(t, sess.Draft.SelectedDate)
	assert.Empty(t, sess.Draft.SelectedTime)
	assert.Equal(t, models.StatusIdle, sess.Status)
}

func TestStepValidity(t *testing.T) {
	w := newTestWizard()
	date := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Plan", func(t *testing.T) {
		sess := w.NewSession("s")
		assert.True(t, w.StepValid(sess, models.StepPlan))

		sess.Draft.ServiceID = ""
		assert.False(t, w.StepValid(sess, models.StepPlan))
	})

	t.Run("Schedule", func(t *testing.T) {
		sess := w.NewSession("s")
		assert.False(t, w.StepValid(sess, models.StepSchedule))

		w.SelectDate(sess, date)
		assert.False(t, w.StepValid(sess, models.StepSchedule), "date alone is not enough")

		w.SelectTime(sess, "11:00")
		assert.True(t, w.StepValid(sess, models.StepSchedule))
	})

	t.Run("Contact", func(t *testing.T) {
		sess := w.NewSession("s")
		assert.False(t, w.StepValid(sess, models.StepContact))

		w.SetName(sess, "Ana")
		assert.False(t, w.StepValid(sess, models.StepContact))

		w.SetEmail(sess, "ana@x.com")
		assert.True(t, w.StepValid(sess, models.StepContact))
	})

	t.Run("SummaryAlwaysValid", func(t *testing.T) {
		sess := w.NewSession("s")
		assert.True(t, w.StepValid(sess, models.StepSummary))
	})
}

func TestGoNextGating(t *testing.T) {
	w := newTestWizard()
	sess := w.NewSession("s")

	// Step 0 is valid out of the box; advance once.
	assert.True(t, w.GoNext(sess))
	assert.Equal(t, models.StepSchedule, sess.Step)

	// Schedule step incomplete: repeated calls are silent no-ops.
	for i := 0; i < 3; i++ {
		assert.False(t, w.GoNext(sess))
		assert.Equal(t, models.StepSchedule, sess.Step, "premature advance must not move the step")
	}

	// Once valid, exactly one call advances by exactly one.
	w.SelectDate(sess, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))
	w.SelectTime(sess, "11:00")
	assert.True(t, w.GoNext(sess))
	assert.Equal(t, models.StepContact, sess.Step)
}

func TestGoNextClampedAtLastStep(t *testing.T) {
	w := newTestWizard()
	sess := completeDraftSession(w)

	require.Equal(t, models.StepSummary, sess.Step)
	assert.False(t, w.GoNext(sess))
	assert.Equal(t, models.StepSummary, sess.Step)
}

func TestGoPrevClampedAtZero(t *testing.T) {
	w := newTestWizard()
	sess := w.NewSession("s")

	assert.False(t, w.GoPrev(sess))
	assert.Equal(t, models.StepPlan, sess.Step)

	require.True(t, w.GoNext(sess))
	assert.True(t, w.GoPrev(sess))
	assert.Equal(t, models.StepPlan, sess.Step)
	assert.False(t, w.GoPrev(sess))
}

func TestNavigationClearsSubmissionStatus(t *testing.T) {
	w := newTestWizard()

	t.Run("GoPrevClears", func(t *testing.T) {
		sess := completeDraftSession(w)
		sess.Status = models.StatusSent

		require.True(t, w.GoPrev(sess))
		assert.Equal(t, models.StatusIdle, sess.Status)
		assert.Empty(t, sess.LastError)
	})

	t.Run("GoNextClears", func(t *testing.T) {
		sess := completeDraftSession(w)
		sess.Status = models.StatusFailed
		sess.LastError = "anything"
		sess.Step = models.StepContact

		require.True(t, w.GoNext(sess))
		assert.Equal(t, models.StatusIdle, sess.Status)
		assert.Empty(t, sess.LastError)
	})

	t.Run("BackChangeForwardScenario", func(t *testing.T) {
		// Completed flow, then back to scheduling, new slot, forward again:
		// the old outcome must not survive into the new summary view.
		sess := completeDraftSession(w)
		sess.Status = models.StatusSent

		require.True(t, w.GoPrev(sess)) // summary -> contact
		require.True(t, w.GoPrev(sess)) // contact -> schedule
		w.SelectTime(sess, "16:30")
		require.True(t, w.GoNext(sess))
		require.True(t, w.GoNext(sess))

		assert.Equal(t, models.StepSummary, sess.Step)
		assert.Equal(t, "16:30", sess.Draft.SelectedTime)
		assert.Equal(t, models.StatusIdle, sess.Status)
		assert.Empty(t, sess.LastError)
	})
}

func TestReset(t *testing.T) {
	w := newTestWizard()
	sess := completeDraftSession(w)
	sess.Status = models.StatusFailed
	sess.LastError = "x"

	w.Reset(sess)

	assert.Equal(t, models.StepPlan, sess.Step)
	assert.Equal(t, "esencial", sess.Draft.ServiceID)
	assert.Nil(t, sess.Draft.SelectedDate)
	assert.Empty(t, sess.Draft.SelectedTime)
	assert.Empty(t, sess.Draft.Name)
	assert.Empty(t, sess.Draft.Email)
	assert.Empty(t, sess.Draft.Notes)
	assert.Equal(t, models.StatusIdle, sess.Status)
	assert.Empty(t, sess.LastError)
}

func TestUpdateFieldNeverMovesStep(t *testing.T) {
	w := newTestWizard()
	sess := w.NewSession("s")

	w.SelectService(sess, "pro")
	w.SelectDate(sess, time.Now())
	w.SelectTime(sess, "09:30")
	w.SetName(sess, "Ana")
	w.SetEmail(sess, "ana@x.com")
	w.SetNotes(sess, "notas")

	assert.Equal(t, models.StepPlan, sess.Step)
	assert.Equal(t, "pro", sess.Draft.ServiceID)
}

func TestProgress(t *testing.T) {
	w := newTestWizard()
	sess := w.NewSession("s")

	assert.InDelta(t, 0.25, Progress(sess), 1e-9)
	sess.Step = models.StepSummary
	assert.InDelta(t, 1.0, Progress(sess), 1e-9)
}

func completeDraftSession(w *Wizard) *models.Session {
	sess := w.NewSession("s")
	w.SelectDate(sess, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))
	w.SelectTime(sess, "11:00")
	w.SetName(sess, "Ana")
	w.SetEmail(sess, "ana@x.com")
	for w.GoNext(sess) {
	}
	return sess
}
