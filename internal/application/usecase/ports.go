package usecase

import (
	"context"
	"time"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
)

// ProgressCache is an optional read-through cache for weekly aggregates.
// Readers only Fill an empty slot; writers Put committed aggregates, and an
// entry is never replaced by one with fewer completions.
type ProgressCache interface {
	Get(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*domain.WeeklyProgress, bool, error)
	Fill(ctx context.Context, p *domain.WeeklyProgress) error
	Put(ctx context.Context, p *domain.WeeklyProgress) error
	Invalidate(ctx context.Context, userID uuid.UUID, weekStart time.Time) error
}

// RefreshStore remembers which refresh tokens are still live.
type RefreshStore interface {
	SaveRefresh(ctx context.Context, userID string, refreshToken string) error
	CheckRefresh(ctx context.Context, refreshToken string) (string, error)
	DeleteRefresh(ctx context.Context, refreshToken string) error
}
