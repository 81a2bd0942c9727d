package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), domain.ErrAlreadyExists)
	assert.ErrorIs(t, translateError(gorm.ErrForeignKeyViolated), domain.ErrNotFound)
	assert.Equal(t, other, translateError(other))
}

func TestHabitModelRoundTripKeepsOptionalDate(t *testing.T) {
	done := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	h := domain.Habit{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Name:          "stretch",
		Type:          domain.HabitGood,
		Nature:        domain.NaturePhysical,
		XPValue:       5,
		Streak:        3,
		LongestStreak: 7,
		LastDone:      &done,
		DoneToday:     true,
	}

	got := toDomainHabit(toGormHabit(&h))
	assert.Equal(t, h, *got)

	h.LastDone = nil
	got = toDomainHabit(toGormHabit(&h))
	assert.Nil(t, got.LastDone)
}
