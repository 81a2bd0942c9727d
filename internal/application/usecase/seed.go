package usecase

import (
	"context"

	"habitrpg/internal/domain"
)

// DefaultHabits are given to every new account.
var DefaultHabits = []CreateHabitInput{
	{Name: "Drink water", Type: domain.HabitGood, Nature: domain.NaturePhysical, XPValue: 10},
	{Name: "Read 20 pages", Type: domain.HabitGood, Nature: domain.NatureMental, XPValue: 10},
	{Name: "Stretch", Type: domain.HabitGood, Nature: domain.NaturePhysical, XPValue: 5},
	{Name: "Doomscrolling", Type: domain.HabitBad, Nature: domain.NatureMental, XPValue: 5},
}

var defaultRewards = []domain.Reward{
	{Name: "Watch an episode", Cost: 50},
	{Name: "Sleep in", Cost: 100},
	{Name: "Order takeout", Cost: 150},
	{Name: "Buy a new game", Cost: 500},
}

var defaultAvatars = []domain.Avatar{
	{ID: 1, Filename: "slacker.png"},
	{ID: 2, Filename: "drone.png"},
	{ID: 3, Filename: "attendant.png"},
	{ID: 4, Filename: "operative.png"},
	{ID: 5, Filename: "wizard.png"},
	{ID: 6, Filename: "knight.png"},
}

// SeedCatalog fills empty reward and avatar catalogs. It reports how many
// entries it created.
func SeedCatalog(ctx context.Context, store domain.Store) (int, error) {
	created := 0
	err := store.Atomic(ctx, func(tx domain.Repositories) error {
		rewards, err := tx.Rewards().List(ctx)
		if err != nil {
			return err
		}
		if len(rewards) == 0 {
			for _, r := range defaultRewards {
				if err := tx.Rewards().Create(ctx, &r); err != nil {
					return err
				}
				created++
			}
		}

		avatars, err := tx.Avatars().List(ctx)
		if err != nil {
			return err
		}
		if len(avatars) == 0 {
			for _, a := range defaultAvatars {
				if err := tx.Avatars().Create(ctx, &a); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	return created, err
}
