package repository

import (
	"context"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardRepository struct {
	db *gorm.DB
}

func (r *RewardRepository) Create(ctx context.Context, reward *domain.Reward) error {
	row := &RewardGorm{ID: reward.ID, Name: reward.Name, Cost: reward.Cost}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	reward.ID = row.ID
	return nil
}

func (r *RewardRepository) List(ctx context.Context) ([]domain.Reward, error) {
	var rows []RewardGorm
	if err := r.db.WithContext(ctx).Order("cost asc").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	rewards := make([]domain.Reward, 0, len(rows))
	for _, row := range rows {
		rewards = append(rewards, domain.Reward{ID: row.ID, Name: row.Name, Cost: row.Cost})
	}
	return rewards, nil
}

func (r *RewardRepository) GetByID(ctx context.Context, id uint) (*domain.Reward, error) {
	var row RewardGorm
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &domain.Reward{ID: row.ID, Name: row.Name, Cost: row.Cost}, nil
}

func (r *RewardRepository) RecordPurchase(ctx context.Context, p *domain.UserReward) error {
	row := &UserRewardGorm{UserID: p.UserID, RewardID: p.RewardID, PurchasedAt: p.PurchasedAt}
	if err := r.db.WithContext(ctx).Omit("User", "Reward").Create(row).Error; err != nil {
		return translateError(err)
	}
	p.ID = row.ID
	return nil
}

func (r *RewardRepository) ListPurchases(ctx context.Context, userID uuid.UUID) ([]domain.UserReward, error) {
	var rows []UserRewardGorm
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	purchases := make([]domain.UserReward, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, domain.UserReward{
			ID:          row.ID,
			UserID:      row.UserID,
			RewardID:    row.RewardID,
			PurchasedAt: row.PurchasedAt,
		})
	}
	return purchases, nil
}

type AvatarRepository struct {
	db *gorm.DB
}

func (r *AvatarRepository) Create(ctx context.Context, a *domain.Avatar) error {
	return translateError(r.db.WithContext(ctx).Create(&AvatarGorm{ID: a.ID, Filename: a.Filename}).Error)
}

func (r *AvatarRepository) List(ctx context.Context) ([]domain.Avatar, error) {
	var rows []AvatarGorm
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	avatars := make([]domain.Avatar, 0, len(rows))
	for _, row := range rows {
		avatars = append(avatars, domain.Avatar{ID: row.ID, Filename: row.Filename})
	}
	return avatars, nil
}

func (r *AvatarRepository) GetByID(ctx context.Context, id int) (*domain.Avatar, error) {
	var row AvatarGorm
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &domain.Avatar{ID: row.ID, Filename: row.Filename}, nil
}
