package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository methods return ErrNotFound for missing rows and
// ErrAlreadyExists for unique violations; other storage errors pass through.

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetForUpdate reads the user and holds a row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	// ListPage returns up to limit users with IDs greater than after, ordered by ID.
	ListPage(ctx context.Context, after uuid.UUID, limit int) ([]User, error)
	Leaderboard(ctx context.Context, limit int) ([]User, error)
}

type HabitRepository interface {
	Create(ctx context.Context, h *Habit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Habit, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeDoneToday bool) ([]Habit, error)
	Update(ctx context.Context, h *Habit) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearDoneToday re-arms every habit and reports how many changed.
	ClearDoneToday(ctx context.Context) (int64, error)
}

type StreakRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserStreak, error)
	Save(ctx context.Context, s *UserStreak) error
}

type WeeklyProgressRepository interface {
	Get(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*WeeklyProgress, error)
	Save(ctx context.Context, p *WeeklyProgress) error
}

type RewardRepository interface {
	Create(ctx context.Context, r *Reward) error
	List(ctx context.Context) ([]Reward, error)
	GetByID(ctx context.Context, id uint) (*Reward, error)
	RecordPurchase(ctx context.Context, p *UserReward) error
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]UserReward, error)
}

type AvatarRepository interface {
	Create(ctx context.Context, a *Avatar) error
	List(ctx context.Context) ([]Avatar, error)
	GetByID(ctx context.Context, id int) (*Avatar, error)
}

// Repositories groups the per-entity repositories bound to one connection
// or transaction.
type Repositories interface {
	Users() UserRepository
	Habits() HabitRepository
	Streaks() StreakRepository
	Weekly() WeeklyProgressRepository
	Rewards() RewardRepository
	Avatars() AvatarRepository
}

// Store is the storage boundary. Atomic runs fn in one transaction: either
// every write fn makes is kept or none is.
type Store interface {
	Repositories
	Atomic(ctx context.Context, fn func(tx Repositories) error) error
}
