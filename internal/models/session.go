package models

import "time"

// BookingDraft accumulates the visitor's selections across wizard steps.
// Owned by exactly one session; never shared.
type BookingDraft struct {
	ServiceID    string     `json:"service_id"`
	SelectedDate *time.Time `json:"selected_date,omitempty"`
	SelectedTime string     `json:"selected_time"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Notes        string     `json:"notes"`
}

// Session holds the full wizard state for one visitor: current step, the
// draft being filled in, and the outcome of the confirmation dispatch.
type Session struct {
	ID        string       `json:"id"`
	Step      int          `json:"step"`
	Draft     BookingDraft `json:"draft"`
	Status    string       `json:"status"`
	LastError string       `json:"last_error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ClearSubmission drops any previous dispatch outcome. Called on every
// navigation so a stale sent/failed result never survives into a new
// summary view.
func (s *Session) ClearSubmission() {
	s.Status = StatusIdle
	s.LastError = ""
}

// Touch updates the modification timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}
