package wizard

import (
	"time"

	"reservas/internal/catalog"
	"reservas/internal/metrics"
	"reservas/internal/models"
)

// Wizard drives the four-step booking flow over a session: plan selection,
// scheduling, contact details, summary. Navigation forward is gated on the
// current step's validity; field updates are never validated at write time,
// validity is re-derived from the draft whenever it is needed.
type Wizard struct {
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Wizard {
	return &Wizard{catalog: cat}
}

// NewSession returns a fresh session at the plan step with the default draft.
func (w *Wizard) NewSession(id string) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:        id,
		Step:      models.StepPlan,
		Draft:     w.defaultDraft(),
		Status:    models.StatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (w *Wizard) defaultDraft() models.BookingDraft {
	return models.BookingDraft{ServiceID: w.catalog.First().ID}
}

// StepValid reports whether the given step's required fields are present in
// the draft. The summary step has no fields of its own and is always valid.
func (w *Wizard) StepValid(s *models.Session, step int) bool {
	switch step {
	case models.StepPlan:
		return s.Draft.ServiceID != ""
	case models.StepSchedule:
		return s.Draft.SelectedDate != nil && s.Draft.SelectedTime != ""
	case models.StepContact:
		return s.Draft.Name != "" && s.Draft.Email != ""
	case models.StepSummary:
		return true
	default:
		return false
	}
}

// CurrentStepValid applies StepValid to the session's current step.
func (w *Wizard) CurrentStepValid(s *models.Session) bool {
	return w.StepValid(s, s.Step)
}

// GoNext advances one step when the current step is valid. An invalid step
// makes the call a silent no-op; the session is left untouched and false is
// returned. Advancing clears any previous dispatch outcome.
func (w *Wizard) GoNext(s *models.Session) bool {
	if s.Step >= models.TotalSteps-1 || !w.CurrentStepValid(s) {
		metrics.IncTransition("next_rejected")
		return false
	}
	s.Step++
	s.ClearSubmission()
	s.Touch()
	metrics.IncTransition("next")
	return true
}

// GoPrev moves one step back, clamped at the first step. Like GoNext it
// clears any previous dispatch outcome.
func (w *Wizard) GoPrev(s *models.Session) bool {
	if s.Step == 0 {
		return false
	}
	s.Step--
	s.ClearSubmission()
	s.Touch()
	metrics.IncTransition("prev")
	return true
}

// Reset restores the default draft and returns the session to the plan step.
func (w *Wizard) Reset(s *models.Session) {
	s.Draft = w.defaultDraft()
	s.Step = models.StepPlan
	s.ClearSubmission()
	s.Touch()
	metrics.IncTransition("reset")
}

// Progress returns the display fraction (step+1)/total. Purely derived.
func Progress(s *models.Session) float64 {
	return float64(s.Step+1) / float64(models.TotalSteps)
}

// Field setters mutate the draft in place. They never change the step and
// never validate; gating happens in GoNext.

func (w *Wizard) SelectService(s *models.Session, id string) {
	s.Draft.ServiceID = id
	s.Touch()
}

func (w *Wizard) SelectDate(s *models.Session, date time.Time) {
	s.Draft.SelectedDate = &date
	s.Touch()
}

func (w *Wizard) SelectTime(s *models.Session, label string) {
	s.Draft.SelectedTime = label
	s.Touch()
}

func (w *Wizard) SetName(s *models.Session, name string) {
	s.Draft.Name = name
	s.Touch()
}

func (w *Wizard) SetEmail(s *models.Session, email string) {
	s.Draft.Email = email
	s.Touch()
}

func (w *Wizard) SetNotes(s *models.Session, notes string) {
	s.Draft.Notes = notes
	s.Touch()
}
