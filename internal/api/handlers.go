package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"reservas/internal/events"
	"reservas/internal/metrics"
	"reservas/internal/models"
	"reservas/internal/wizard"

	"github.com/google/uuid"
)

type fieldRequest struct {
	Value string `json:"value"`
}

type draftView struct {
	ServiceID    string `json:"service_id"`
	SelectedDate string `json:"selected_date,omitempty"`
	SelectedTime string `json:"selected_time,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type sessionView struct {
	SessionID  string    `json:"session_id"`
	Step       int       `json:"step"`
	TotalSteps int       `json:"total_steps"`
	Progress   float64   `json:"progress"`
	StepValid  bool      `json:"step_valid"`
	Draft      draftView `json:"draft"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}

func (s *HTTPServer) sessionView(sess *models.Session) sessionView {
	view := sessionView{
		SessionID:  sess.ID,
		Step:       sess.Step,
		TotalSteps: models.TotalSteps,
		Progress:   wizard.Progress(sess),
		StepValid:  s.wizard.CurrentStepValid(sess),
		Status:     sess.Status,
		Error:      sess.LastError,
		Draft: draftView{
			ServiceID:    sess.Draft.ServiceID,
			SelectedTime: sess.Draft.SelectedTime,
			Name:         sess.Draft.Name,
			Email:        sess.Draft.Email,
			Notes:        sess.Draft.Notes,
		},
	}
	if sess.Draft.SelectedDate != nil {
		view.Draft.SelectedDate = sess.Draft.SelectedDate.Format("2006-01-02")
	}
	return view
}

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("services")
	writeJSON(w, http.StatusOK, map[string]any{"services": s.catalog.Services()})
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("slots")
	writeJSON(w, http.StatusOK, map[string]any{"slots": s.catalog.Slots()})
}

func (s *HTTPServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("session_create")

	sess := s.wizard.NewSession(uuid.NewString())
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save new session")
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	s.publish(events.EventSessionCreated, sess.ID)
	writeJSON(w, http.StatusCreated, s.sessionView(sess))
}

// handleSession routes /api/v1/sessions/{id} and /api/v1/sessions/{id}/{op}.
func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "session id is required")
		return
	}

	id := parts[0]
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("Failed to load session")
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		metrics.IncHTTP("session_get")
		writeJSON(w, http.StatusOK, s.sessionView(sess))

	case len(parts) == 2:
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleSessionOp(w, r, sess, parts[1])

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleSessionOp(w http.ResponseWriter, r *http.Request, sess *models.Session, op string) {
	metrics.IncHTTP("session_" + op)

	switch op {
	case "service", "date", "time", "name", "email", "notes":
		var req fieldRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !s.applyField(sess, op, req.Value, w) {
			return
		}

	case "next":
		s.wizard.GoNext(sess)
	case "prev":
		s.wizard.GoPrev(sess)
	case "reset":
		s.wizard.Reset(sess)
		s.publish(events.EventSessionReset, sess.ID)
	case "confirm":
		svc := s.catalog.FindService(sess.Draft.ServiceID)
		s.dispatcher.Confirm(r.Context(), sess, svc)
		// Confirm сам сохраняет сессию на каждом переходе статуса.
		writeJSON(w, http.StatusOK, s.sessionView(sess))
		return

	default:
		writeError(w, http.StatusNotFound, "unknown operation")
		return
	}

	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to save session")
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

func (s *HTTPServer) publish(eventType, sessionID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, map[string]string{"session_id": sessionID}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish session event")
	}
}

// applyField writes one draft field. Only the date needs parsing; everything
// else is stored as-is and validated at navigation time.
func (s *HTTPServer) applyField(sess *models.Session, field, value string, w http.ResponseWriter) bool {
	switch field {
	case "service":
		s.wizard.SelectService(sess, value)
	case "date":
		date, err := time.Parse("2006-01-02", value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return false
		}
		s.wizard.SelectDate(sess, date)
	case "time":
		s.wizard.SelectTime(sess, value)
	case "name":
		s.wizard.SetName(sess, value)
	case "email":
		s.wizard.SetEmail(sess, value)
	case "notes":
		s.wizard.SetNotes(sess, value)
	}
	return true
}
