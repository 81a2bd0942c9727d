package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStreak measures day-over-day engagement across all habits.
type UserStreak struct {
	UserID        uuid.UUID
	CurrentStreak int
	LongestStreak int
	LastCompleted *time.Time
}

type WeeklyProgress struct {
	UserID          uuid.UUID
	WeekStart       time.Time
	HabitsCompleted int
	GoodHabits      int
	BadHabits       int
	XPGained        int
}

// CompletionResult is what a successful completeHabit call reports back.
type CompletionResult struct {
	XP                 int    `json:"xp"`
	Level              int    `json:"level"`
	Rank               string `json:"rank"`
	Mana               int    `json:"mana"`
	Health             int    `json:"health"`
	HabitStreak        int    `json:"streak"`
	HabitLongestStreak int    `json:"longest_streak"`
	UserStreak         int    `json:"user_streak"`
	UserLongestStreak  int    `json:"user_longest_streak"`
}
