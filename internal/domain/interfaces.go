package domain

import (
	"context"

	"reservas/internal/models"
)

// SessionRepository stores wizard sessions by ID. Implementations expire
// sessions after the configured TTL; a missing or expired session is
// reported as (nil, nil), not an error.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher decouples components that announce domain events from the
// subscribers that react to them.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
