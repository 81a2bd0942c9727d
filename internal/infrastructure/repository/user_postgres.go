package repository

import (
	"context"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	gormUser := toGormUser(user)

	if err := r.db.WithContext(ctx).Create(gormUser).Error; err != nil {
		return translateError(err)
	}

	user.ID = gormUser.ID
	user.CreatedAt = gormUser.CreatedAt
	user.UpdatedAt = gormUser.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *UserRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.first(forUpdate(r.db.WithContext(ctx)), "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx), "email = ?", email)
}

func (r *UserRepository) first(db *gorm.DB, query string, args ...any) (*domain.User, error) {
	var userModel UserGorm
	if err := db.Where(query, args...).First(&userModel).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainUser(&userModel), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	gormUser := toGormUser(user)
	result := r.db.WithContext(ctx).Model(gormUser).Select("*").Omit("created_at").Updates(gormUser)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	user.UpdatedAt = gormUser.UpdatedAt
	return nil
}

func (r *UserRepository) ListPage(ctx context.Context, after uuid.UUID, limit int) ([]domain.User, error) {
	var rows []UserGorm
	err := r.db.WithContext(ctx).
		Where("id > ?", after).
		Order("id asc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainUsers(rows), nil
}

func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	var rows []UserGorm
	err := r.db.WithContext(ctx).
		Order("xp desc").
		Order("created_at asc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainUsers(rows), nil
}

func toDomainUsers(rows []UserGorm) []domain.User {
	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *toDomainUser(&rows[i]))
	}
	return users
}
