package usecase

import (
	"context"
	"fmt"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
)

type AvatarUseCase struct {
	store domain.Store
}

func NewAvatarUseCase(store domain.Store) *AvatarUseCase {
	return &AvatarUseCase{store: store}
}

func (uc *AvatarUseCase) List(ctx context.Context) ([]domain.Avatar, error) {
	return uc.store.Avatars().List(ctx)
}

func (uc *AvatarUseCase) Select(ctx context.Context, userID uuid.UUID, avatarID int) error {
	if avatarID <= 0 {
		return fmt.Errorf("%w: avatar_id is required", domain.ErrValidation)
	}
	return uc.store.Atomic(ctx, func(tx domain.Repositories) error {
		if _, err := tx.Avatars().GetByID(ctx, avatarID); err != nil {
			return err
		}
		user, err := tx.Users().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		user.AvatarID = avatarID
		return tx.Users().Update(ctx, user)
	})
}
