package domain

import (
	"time"

	"github.com/google/uuid"
)

type HabitType string

const (
	HabitGood HabitType = "good"
	HabitBad  HabitType = "bad"
)

func (t HabitType) Valid() bool {
	return t == HabitGood || t == HabitBad
}

type HabitNature string

const (
	NaturePhysical HabitNature = "physical"
	NatureMental   HabitNature = "mental"
)

func (n HabitNature) Valid() bool {
	return n == NaturePhysical || n == NatureMental
}

type Habit struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Type          HabitType
	Nature        HabitNature
	XPValue       int
	CoverPhoto    string
	Streak        int
	LongestStreak int
	LastDone      *time.Time
	DoneToday     bool
	CreatedAt     time.Time
}

// ResourceKind selects which pool a habit event drains.
type ResourceKind string

const (
	ResourceMana   ResourceKind = "mana"
	ResourceHealth ResourceKind = "health"
)
