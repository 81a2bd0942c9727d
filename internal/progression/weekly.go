package progression

import (
	"time"

	"habitrpg/internal/clock"
	"habitrpg/internal/domain"

	"github.com/google/uuid"
)

// WeekStart returns the Monday on or before day.
func WeekStart(day time.Time) time.Time {
	d := clock.Day(day)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// EmptyWeek is the zeroed aggregate for the week containing day.
func EmptyWeek(userID uuid.UUID, day time.Time) domain.WeeklyProgress {
	return domain.WeeklyProgress{UserID: userID, WeekStart: WeekStart(day)}
}

// RecordCompletion counts one completion of h into p.
func RecordCompletion(p domain.WeeklyProgress, h domain.Habit) domain.WeeklyProgress {
	p.HabitsCompleted++
	if h.Type == domain.HabitBad {
		p.BadHabits++
		p.XPGained -= h.XPValue
	} else {
		p.GoodHabits++
		p.XPGained += h.XPValue
	}
	return p
}
