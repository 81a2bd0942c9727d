package progression

import (
	"testing"
	"time"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComplete_GoodMentalDrainsMana(t *testing.T) {
	h := domain.Habit{Type: domain.HabitGood, Nature: domain.NatureMental, XPValue: 10}

	got, eff, err := Complete(h, day(2026, 2, 9))
	require.NoError(t, err)

	assert.Equal(t, Effect{XPDelta: 10, Resource: domain.ResourceMana, ResourceDelta: -10}, eff)
	assert.True(t, got.DoneToday)
	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, 1, got.LongestStreak)
	require.NotNil(t, got.LastDone)
	assert.Equal(t, day(2026, 2, 9), *got.LastDone)
}

func TestComplete_BadPhysicalDrainsHealth(t *testing.T) {
	h := domain.Habit{Type: domain.HabitBad, Nature: domain.NaturePhysical, XPValue: 20}

	_, eff, err := Complete(h, day(2026, 2, 9))
	require.NoError(t, err)

	assert.Equal(t, Effect{XPDelta: -20, Resource: domain.ResourceHealth, ResourceDelta: -15}, eff)
}

func TestComplete_SameDayIsRejected(t *testing.T) {
	h := domain.Habit{Type: domain.HabitGood, Nature: domain.NaturePhysical, XPValue: 5}
	first, _, err := Complete(h, day(2026, 2, 9))
	require.NoError(t, err)

	second, eff, err := Complete(first, day(2026, 2, 9))
	assert.ErrorIs(t, err, domain.ErrAlreadyCompletedToday)
	assert.Equal(t, first, second)
	assert.Equal(t, Effect{}, eff)
}

func TestComplete_StreakAcrossDays(t *testing.T) {
	h := domain.Habit{Type: domain.HabitGood, Nature: domain.NaturePhysical, XPValue: 5}
	start := day(2026, 2, 1)

	for i := 0; i < 9; i++ {
		var err error
		h, _, err = Complete(h, start.AddDate(0, 0, i))
		require.NoError(t, err)
		h.DoneToday = false // daily reset
	}

	assert.Equal(t, 9, h.Streak)
	assert.Equal(t, 9, h.LongestStreak)
	assert.False(t, h.DoneToday)
}

func TestComplete_LongestStreakNeverDrops(t *testing.T) {
	h := domain.Habit{Type: domain.HabitGood, XPValue: 5, Streak: 0, LongestStreak: 12}

	h, _, err := Complete(h, day(2026, 2, 9))
	require.NoError(t, err)

	assert.Equal(t, 1, h.Streak)
	assert.Equal(t, 12, h.LongestStreak)
}

func TestCheckOwner(t *testing.T) {
	owner := uuid.New()
	h := domain.Habit{UserID: owner}

	assert.NoError(t, CheckOwner(h, owner))
	assert.ErrorIs(t, CheckOwner(h, uuid.New()), domain.ErrNotOwner)
}
