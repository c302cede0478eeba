package repository

import (
	"context"
	"sync"
	"time"

	"reservas/internal/models"
)

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

// MemorySessionRepository keeps wizard sessions in process memory. Used as
// the fallback store when Redis is unavailable and as the only store in
// single-instance deployments. Expiry is enforced on read.
type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{ttl: ttl}
}

func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	val, ok := r.sessions.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(memoryEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.sessions.Delete(id)
		return nil, nil
	}
	return entry.session, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.sessions.Store(session.ID, memoryEntry{
		session:   session,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.sessions.Delete(id)
	return nil
}
