package progression

import (
	"time"

	"habitrpg/internal/clock"
	"habitrpg/internal/domain"

	"github.com/google/uuid"
)

// NewStreak is the record a user has before the first recorded activity.
func NewStreak(userID uuid.UUID) domain.UserStreak {
	return domain.UserStreak{UserID: userID}
}

// RecordActivity advances the user's engagement streak by one. Callers make
// sure it runs at most once per user per day.
func RecordActivity(s domain.UserStreak, today time.Time) domain.UserStreak {
	day := clock.Day(today)
	s.CurrentStreak++
	s.LongestStreak = max(s.LongestStreak, s.CurrentStreak)
	s.LastCompleted = &day
	return s
}
