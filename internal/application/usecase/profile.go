package usecase

import (
	"context"
	"errors"

	"habitrpg/internal/domain"
	"habitrpg/internal/progression"

	"github.com/google/uuid"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

type ProfileUseCase struct {
	store domain.Store
}

func NewProfileUseCase(store domain.Store) *ProfileUseCase {
	return &ProfileUseCase{store: store}
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	user, err := uc.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	streak := progression.NewStreak(userID)
	s, err := uc.store.Streaks().Get(ctx, userID)
	switch {
	case err == nil:
		streak = *s
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	return &domain.Profile{User: *user, Streak: streak}, nil
}

func (uc *ProfileUseCase) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	limit = min(limit, maxLeaderboardSize)
	return uc.store.Users().Leaderboard(ctx, limit)
}
