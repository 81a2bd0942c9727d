package progression

import (
	"time"

	"habitrpg/internal/clock"
	"habitrpg/internal/domain"

	"github.com/google/uuid"
)

const (
	goodHabitCost = 10
	badHabitCost  = 15
)

// Effect is what a habit completion does to its owner. The ledger computes
// it; the vitals tracker applies it.
type Effect struct {
	XPDelta       int
	Resource      domain.ResourceKind
	ResourceDelta int
}

// Complete marks h done for today and returns the updated habit together
// with the effect on its owner. The streak advances by one per successful
// call; the done-today flag is the only once-per-day guard.
func Complete(h domain.Habit, today time.Time) (domain.Habit, Effect, error) {
	if h.DoneToday {
		return h, Effect{}, domain.ErrAlreadyCompletedToday
	}

	var eff Effect
	cost := goodHabitCost
	if h.Type == domain.HabitBad {
		eff.XPDelta = -h.XPValue
		cost = badHabitCost
	} else {
		eff.XPDelta = h.XPValue
	}

	eff.Resource = domain.ResourceHealth
	if h.Nature == domain.NatureMental {
		eff.Resource = domain.ResourceMana
	}
	eff.ResourceDelta = -cost

	day := clock.Day(today)
	h.Streak++
	h.LongestStreak = max(h.LongestStreak, h.Streak)
	h.LastDone = &day
	h.DoneToday = true

	return h, eff, nil
}

func CheckOwner(h domain.Habit, userID uuid.UUID) error {
	if h.UserID != userID {
		return domain.ErrNotOwner
	}
	return nil
}
