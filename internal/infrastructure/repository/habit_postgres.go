package repository

import (
	"context"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HabitRepository struct {
	db *gorm.DB
}

func (r *HabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	gormHabit := toGormHabit(habit)
	if err := r.db.WithContext(ctx).Omit("User").Create(gormHabit).Error; err != nil {
		return translateError(err)
	}
	habit.ID = gormHabit.ID
	habit.CreatedAt = gormHabit.CreatedAt
	return nil
}

func (r *HabitRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *HabitRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	return r.first(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *HabitRepository) first(db *gorm.DB, id uuid.UUID) (*domain.Habit, error) {
	var habitModel HabitGorm
	if err := db.First(&habitModel, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainHabit(&habitModel), nil
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeDoneToday bool) ([]domain.Habit, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeDoneToday {
		query = query.Where("done_today = ?", false)
	}

	var rows []HabitGorm
	if err := query.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	habits := make([]domain.Habit, 0, len(rows))
	for i := range rows {
		habits = append(habits, *toDomainHabit(&rows[i]))
	}
	return habits, nil
}

func (r *HabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	gormHabit := toGormHabit(habit)
	result := r.db.WithContext(ctx).Model(gormHabit).
		Select("*").
		Omit("User", "created_at").
		Updates(gormHabit)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *HabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&HabitGorm{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *HabitRepository) ClearDoneToday(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&HabitGorm{}).
		Where("done_today = ?", true).
		Update("done_today", false)
	return result.RowsAffected, translateError(result.Error)
}
