package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"habitrpg/internal/clock"
	"habitrpg/internal/domain"
	"habitrpg/internal/progression"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const defaultXPValue = 10

type HabitUseCase struct {
	store  domain.Store
	clock  clock.Clock
	cache  ProgressCache
	logger *log.Logger
}

// NewHabitUseCase wires the habit operations. cache may be nil.
func NewHabitUseCase(store domain.Store, clk clock.Clock, cache ProgressCache, logger *log.Logger) *HabitUseCase {
	return &HabitUseCase{store: store, clock: clk, cache: cache, logger: logger}
}

type CreateHabitInput struct {
	Name       string
	Type       domain.HabitType
	Nature     domain.HabitNature
	XPValue    int
	CoverPhoto string
}

func (in *CreateHabitInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case len(in.Name) > 100:
		return fmt.Errorf("%w: name is longer than 100 characters", domain.ErrValidation)
	case !in.Type.Valid():
		return fmt.Errorf("%w: habit_type must be good or bad", domain.ErrValidation)
	case !in.Nature.Valid():
		return fmt.Errorf("%w: habit_nature must be physical or mental", domain.ErrValidation)
	case len(in.CoverPhoto) > 100:
		return fmt.Errorf("%w: cover_photo is longer than 100 characters", domain.ErrValidation)
	case in.XPValue < 0:
		return fmt.Errorf("%w: xp_value must be positive", domain.ErrValidation)
	}
	if in.XPValue == 0 {
		in.XPValue = defaultXPValue
	}
	return nil
}

func (uc *HabitUseCase) CreateHabit(ctx context.Context, userID uuid.UUID, in CreateHabitInput) (uuid.UUID, error) {
	if err := in.normalize(); err != nil {
		return uuid.Nil, err
	}

	habit := &domain.Habit{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       in.Name,
		Type:       in.Type,
		Nature:     in.Nature,
		XPValue:    in.XPValue,
		CoverPhoto: in.CoverPhoto,
	}
	if err := uc.store.Habits().Create(ctx, habit); err != nil {
		return uuid.Nil, err
	}

	uc.logger.Debug("habit created", "habit", habit.ID, "user", userID, "type", habit.Type)
	return habit.ID, nil
}

func (uc *HabitUseCase) ListHabits(ctx context.Context, userID uuid.UUID, includeDoneToday bool) ([]domain.Habit, error) {
	return uc.store.Habits().ListByUser(ctx, userID, includeDoneToday)
}

func (uc *HabitUseCase) DeleteHabit(ctx context.Context, habitID, callerID uuid.UUID) error {
	return uc.store.Atomic(ctx, func(tx domain.Repositories) error {
		habit, err := tx.Habits().GetForUpdate(ctx, habitID)
		if err != nil {
			return err
		}
		if err := progression.CheckOwner(*habit, callerID); err != nil {
			return err
		}
		return tx.Habits().Delete(ctx, habitID)
	})
}

// CompleteHabit marks a habit done for today and applies the consequences to
// its owner: vitals, global streak and the weekly aggregate. All of it is
// written in one transaction.
func (uc *HabitUseCase) CompleteHabit(ctx context.Context, habitID, callerID uuid.UUID) (*domain.CompletionResult, error) {
	today := uc.clock.Today()

	var (
		result domain.CompletionResult
		week   domain.WeeklyProgress
	)
	err := uc.store.Atomic(ctx, func(tx domain.Repositories) error {
		peek, err := tx.Habits().GetByID(ctx, habitID)
		if err != nil {
			return err
		}
		if err := progression.CheckOwner(*peek, callerID); err != nil {
			return err
		}

		// Lock order is user, then habit; the daily reset takes users first too.
		user, err := tx.Users().GetForUpdate(ctx, peek.UserID)
		if err != nil {
			return err
		}
		habit, err := tx.Habits().GetForUpdate(ctx, habitID)
		if err != nil {
			return err
		}

		updatedHabit, effect, err := progression.Complete(*habit, today)
		if err != nil {
			return err
		}
		updatedUser := progression.Apply(*user, effect)
		updatedUser = progression.MarkActive(updatedUser, today)

		streak, err := uc.loadStreak(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		updatedStreak := progression.RecordActivity(streak, today)

		current, err := uc.loadWeek(ctx, tx, user.ID, today)
		if err != nil {
			return err
		}
		updatedWeek := progression.RecordCompletion(current, updatedHabit)

		if err := tx.Habits().Update(ctx, &updatedHabit); err != nil {
			return err
		}
		if err := tx.Users().Update(ctx, &updatedUser); err != nil {
			return err
		}
		if err := tx.Streaks().Save(ctx, &updatedStreak); err != nil {
			return err
		}
		if err := tx.Weekly().Save(ctx, &updatedWeek); err != nil {
			return err
		}

		week = updatedWeek
		result = domain.CompletionResult{
			XP:                 updatedUser.XP,
			Level:              updatedUser.Level,
			Rank:               updatedUser.LevelName,
			Mana:               updatedUser.Mana,
			Health:             updatedUser.Health,
			HabitStreak:        updatedHabit.Streak,
			HabitLongestStreak: updatedHabit.LongestStreak,
			UserStreak:         updatedStreak.CurrentStreak,
			UserLongestStreak:  updatedStreak.LongestStreak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Put(ctx, &week); err != nil {
			uc.logger.Warn("weekly progress cache write failed", "user", callerID, "err", err)
			if err := uc.cache.Invalidate(ctx, week.UserID, week.WeekStart); err != nil {
				uc.logger.Warn("weekly progress cache invalidation failed", "user", callerID, "err", err)
			}
		}
	}

	uc.logger.Info("habit completed", "habit", habitID, "user", callerID, "xp", result.XP, "level", result.Level)
	return &result, nil
}

func (uc *HabitUseCase) loadStreak(ctx context.Context, tx domain.Repositories, userID uuid.UUID) (domain.UserStreak, error) {
	s, err := tx.Streaks().Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return progression.NewStreak(userID), nil
	}
	if err != nil {
		return domain.UserStreak{}, err
	}
	return *s, nil
}

func (uc *HabitUseCase) loadWeek(ctx context.Context, repos domain.Repositories, userID uuid.UUID, day time.Time) (domain.WeeklyProgress, error) {
	p, err := repos.Weekly().Get(ctx, userID, progression.WeekStart(day))
	if errors.Is(err, domain.ErrNotFound) {
		return progression.EmptyWeek(userID, day), nil
	}
	if err != nil {
		return domain.WeeklyProgress{}, err
	}
	return *p, nil
}

// GetWeeklyProgress returns the aggregate for the week containing day, or a
// zeroed one when nothing was recorded yet.
func (uc *HabitUseCase) GetWeeklyProgress(ctx context.Context, userID uuid.UUID, day time.Time) (domain.WeeklyProgress, error) {
	weekStart := progression.WeekStart(day)

	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, userID, weekStart)
		if err != nil {
			uc.logger.Warn("weekly progress cache read failed", "user", userID, "err", err)
		} else if ok {
			return *cached, nil
		}
	}

	p, err := uc.loadWeek(ctx, uc.store, userID, day)
	if err != nil {
		return domain.WeeklyProgress{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.Fill(ctx, &p); err != nil {
			uc.logger.Warn("weekly progress cache write failed", "user", userID, "err", err)
		}
	}
	return p, nil
}
