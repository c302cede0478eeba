package repository

import (
	"context"
	"sync/atomic"
	"time"

	"reservas/internal/domain"
	"reservas/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository serves from the primary store (Redis) and falls
// back to the in-memory store when the primary errors. After a minute it
// probes the primary again on the next read.
type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.Get(ctx, id)
		if err == nil {
			return session, nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		session, err := r.primary.Get(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.Get(ctx, id)
}

func (r *FailoverSessionRepository) Save(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.Save(ctx, session)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.Save(ctx, session)
}

func (r *FailoverSessionRepository) Delete(ctx context.Context, id string) error {
	if !r.isDown.Load() {
		err := r.primary.Delete(ctx, id)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.Delete(ctx, id)
}
