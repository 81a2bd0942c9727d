package usecase

import (
	"context"
	"fmt"
	"time"

	"habitrpg/internal/domain"
	"habitrpg/internal/progression"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type RewardUseCase struct {
	store  domain.Store
	logger *log.Logger
}

func NewRewardUseCase(store domain.Store, logger *log.Logger) *RewardUseCase {
	return &RewardUseCase{store: store, logger: logger}
}

func (uc *RewardUseCase) List(ctx context.Context) ([]domain.Reward, error) {
	return uc.store.Rewards().List(ctx)
}

func (uc *RewardUseCase) Purchases(ctx context.Context, userID uuid.UUID) ([]domain.UserReward, error) {
	return uc.store.Rewards().ListPurchases(ctx, userID)
}

// Buy spends XP on a reward and returns the XP left. Spending XP can drop
// the buyer's level.
func (uc *RewardUseCase) Buy(ctx context.Context, userID uuid.UUID, rewardID uint) (int, error) {
	var remaining int
	err := uc.store.Atomic(ctx, func(tx domain.Repositories) error {
		user, err := tx.Users().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		reward, err := tx.Rewards().GetByID(ctx, rewardID)
		if err != nil {
			return err
		}
		if user.XP < reward.Cost {
			return fmt.Errorf("%w: %q costs %d xp, you have %d", domain.ErrInsufficientResource, reward.Name, reward.Cost, user.XP)
		}

		updated := progression.Apply(*user, progression.Effect{XPDelta: -reward.Cost})
		if err := tx.Users().Update(ctx, &updated); err != nil {
			return err
		}
		purchase := &domain.UserReward{
			UserID:      userID,
			RewardID:    reward.ID,
			PurchasedAt: time.Now().UTC(),
		}
		if err := tx.Rewards().RecordPurchase(ctx, purchase); err != nil {
			return err
		}
		remaining = updated.XP
		return nil
	})
	if err != nil {
		return 0, err
	}

	uc.logger.Info("reward purchased", "user", userID, "reward", rewardID, "remaining_xp", remaining)
	return remaining, nil
}
