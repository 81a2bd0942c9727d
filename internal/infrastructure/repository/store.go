package repository

import (
	"context"
	"errors"

	"habitrpg/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the postgres-backed domain.Store. Open the *gorm.DB with
// TranslateError enabled so duplicate keys surface as gorm.ErrDuplicatedKey.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserGorm{},
		&HabitGorm{},
		&UserStreakGorm{},
		&WeeklyProgressGorm{},
		&RewardGorm{},
		&UserRewardGorm{},
		&AvatarGorm{},
	)
}

func (s *Store) Atomic(ctx context.Context, fn func(tx domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Users() domain.UserRepository {
	return &UserRepository{db: s.db}
}

func (s *Store) Habits() domain.HabitRepository {
	return &HabitRepository{db: s.db}
}

func (s *Store) Streaks() domain.StreakRepository {
	return &StreakRepository{db: s.db}
}

func (s *Store) Weekly() domain.WeeklyProgressRepository {
	return &WeeklyProgressRepository{db: s.db}
}

func (s *Store) Rewards() domain.RewardRepository {
	return &RewardRepository{db: s.db}
}

func (s *Store) Avatars() domain.AvatarRepository {
	return &AvatarRepository{db: s.db}
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrNotFound
	}
	return err
}
