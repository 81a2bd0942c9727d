package domain

import (
	"time"

	"github.com/google/uuid"
)

type Reward struct {
	ID   uint
	Name string
	Cost int
}

type UserReward struct {
	ID          uint
	UserID      uuid.UUID
	RewardID    uint
	PurchasedAt time.Time
}

type Avatar struct {
	ID       int
	Filename string
}

func (a Avatar) URL() string {
	return "/static/avatars/" + a.Filename
}
