package repository

import (
	"context"
	"time"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository struct {
	db *gorm.DB
}

func (r *StreakRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.UserStreak, error) {
	var row UserStreakGorm
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return &domain.UserStreak{
		UserID:        row.UserID,
		CurrentStreak: row.CurrentStreak,
		LongestStreak: row.LongestStreak,
		LastCompleted: fromDate(row.LastCompleted),
	}, nil
}

func (r *StreakRepository) Save(ctx context.Context, s *domain.UserStreak) error {
	row := &UserStreakGorm{
		UserID:        s.UserID,
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
		LastCompleted: toDate(s.LastCompleted),
	}
	err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_streak", "longest_streak", "last_completed"}),
		}).
		Create(row).Error
	return translateError(err)
}

type WeeklyProgressRepository struct {
	db *gorm.DB
}

func (r *WeeklyProgressRepository) Get(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*domain.WeeklyProgress, error) {
	var row WeeklyProgressGorm
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, datatypes.Date(weekStart)).
		First(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &domain.WeeklyProgress{
		UserID:          row.UserID,
		WeekStart:       dateOf(row.WeekStart),
		HabitsCompleted: row.HabitsCompleted,
		GoodHabits:      row.GoodHabits,
		BadHabits:       row.BadHabits,
		XPGained:        row.XPGained,
	}, nil
}

func (r *WeeklyProgressRepository) Save(ctx context.Context, p *domain.WeeklyProgress) error {
	row := &WeeklyProgressGorm{
		UserID:          p.UserID,
		WeekStart:       datatypes.Date(p.WeekStart),
		HabitsCompleted: p.HabitsCompleted,
		GoodHabits:      p.GoodHabits,
		BadHabits:       p.BadHabits,
		XPGained:        p.XPGained,
	}
	err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns([]string{"habits_completed", "good_habits", "bad_habits", "xp_gained"}),
		}).
		Create(row).Error
	return translateError(err)
}
