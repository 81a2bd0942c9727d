package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitrpg/internal/clock"
	"habitrpg/internal/domain"
	"habitrpg/internal/progression"

	"github.com/google/uuid"
)

const resetBatchSize = 200

type ResetReport struct {
	Day           time.Time
	UsersRefilled int
	HabitsRearmed int64
}

// RunDailyReset moves the whole system across a day boundary: every user's
// caps follow their level and both pools are refilled, then every habit is
// re-armed. Users are processed in batches, one transaction per batch. It
// does not remember previous runs; running it twice on one day refills and
// clears again.
func (uc *HabitUseCase) RunDailyReset(ctx context.Context, today time.Time) (ResetReport, error) {
	today = clock.Day(today)
	report := ResetReport{Day: today}

	after := uuid.Nil
	for {
		page, err := uc.store.Users().ListPage(ctx, after, resetBatchSize)
		if err != nil {
			return report, fmt.Errorf("list users after %s: %w", after, err)
		}
		if len(page) == 0 {
			break
		}

		refilled := 0
		err = uc.store.Atomic(ctx, func(tx domain.Repositories) error {
			refilled = 0
			for _, p := range page {
				user, err := tx.Users().GetForUpdate(ctx, p.ID)
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				updated := progression.RefillForNewDay(*user)
				if err := tx.Users().Update(ctx, &updated); err != nil {
					return err
				}
				refilled++
			}
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("refill users after %s: %w", after, err)
		}

		report.UsersRefilled += refilled
		after = page[len(page)-1].ID
	}

	n, err := uc.store.Habits().ClearDoneToday(ctx)
	if err != nil {
		return report, fmt.Errorf("clear done_today: %w", err)
	}
	report.HabitsRearmed = n

	uc.logger.Info("daily reset finished",
		"day", today.Format(time.DateOnly),
		"users", report.UsersRefilled,
		"habits", report.HabitsRearmed,
	)
	return report, nil
}
