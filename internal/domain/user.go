package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string
	AvatarID  int
	XP        int
	Level     int
	LevelName string

	Mana      int
	MaxMana   int
	Health    int
	MaxHealth int

	// DaysAlive counts distinct calendar days with at least one completion.
	DaysAlive    int
	LastActiveOn *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the read model served to the owner of the account.
type Profile struct {
	User
	Streak UserStreak
}
