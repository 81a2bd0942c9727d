package repository

import (
	"time"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserGorm struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username  string    `gorm:"uniqueIndex;not null;size:50"`
	Email     string    `gorm:"uniqueIndex;not null;size:100"`
	Password  string    `gorm:"not null"`
	AvatarID  int       `gorm:"default:0"`
	XP        int       `gorm:"not null;default:0;index"`
	Level     int       `gorm:"not null;default:1"`
	LevelName string    `gorm:"size:50"`

	Mana      int `gorm:"not null;default:100"`
	MaxMana   int `gorm:"not null;default:100"`
	Health    int `gorm:"not null;default:100"`
	MaxHealth int `gorm:"not null;default:100"`

	DaysAlive    int `gorm:"not null;default:0"`
	LastActiveOn *datatypes.Date

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserGorm) TableName() string {
	return "users"
}

type HabitGorm struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	User          UserGorm  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Name          string    `gorm:"not null;size:100"`
	Type          string    `gorm:"not null;size:10"`
	Nature        string    `gorm:"not null;size:10"`
	XPValue       int       `gorm:"not null;default:10"`
	CoverPhoto    string    `gorm:"size:100"`
	Streak        int       `gorm:"not null;default:0"`
	LongestStreak int       `gorm:"not null;default:0"`
	LastDone      *datatypes.Date
	DoneToday     bool `gorm:"not null;default:false;index"`
	CreatedAt     time.Time
}

func (HabitGorm) TableName() string {
	return "habits"
}

type UserStreakGorm struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	User          UserGorm  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CurrentStreak int       `gorm:"not null;default:0"`
	LongestStreak int       `gorm:"not null;default:0"`
	LastCompleted *datatypes.Date
}

func (UserStreakGorm) TableName() string {
	return "user_streaks"
}

type WeeklyProgressGorm struct {
	UserID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	User            UserGorm       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	WeekStart       datatypes.Date `gorm:"primaryKey"`
	HabitsCompleted int            `gorm:"not null;default:0"`
	GoodHabits      int            `gorm:"not null;default:0"`
	BadHabits       int            `gorm:"not null;default:0"`
	XPGained        int            `gorm:"not null;default:0"`
}

func (WeeklyProgressGorm) TableName() string {
	return "weekly_progress"
}

type RewardGorm struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;size:100"`
	Cost int    `gorm:"not null"`
}

func (RewardGorm) TableName() string {
	return "rewards"
}

type UserRewardGorm struct {
	ID          uint       `gorm:"primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	User        UserGorm   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	RewardID    uint       `gorm:"not null"`
	Reward      RewardGorm `gorm:"foreignKey:RewardID"`
	PurchasedAt time.Time
}

func (UserRewardGorm) TableName() string {
	return "user_rewards"
}

type AvatarGorm struct {
	ID       int    `gorm:"primaryKey;autoIncrement:false"`
	Filename string `gorm:"not null;size:100"`
}

func (AvatarGorm) TableName() string {
	return "avatars"
}

func toGormUser(u *domain.User) *UserGorm {
	return &UserGorm{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Password:     u.Password,
		AvatarID:     u.AvatarID,
		XP:           u.XP,
		Level:        u.Level,
		LevelName:    u.LevelName,
		Mana:         u.Mana,
		MaxMana:      u.MaxMana,
		Health:       u.Health,
		MaxHealth:    u.MaxHealth,
		DaysAlive:    u.DaysAlive,
		LastActiveOn: toDate(u.LastActiveOn),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainUser(u *UserGorm) *domain.User {
	return &domain.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Password:     u.Password,
		AvatarID:     u.AvatarID,
		XP:           u.XP,
		Level:        u.Level,
		LevelName:    u.LevelName,
		Mana:         u.Mana,
		MaxMana:      u.MaxMana,
		Health:       u.Health,
		MaxHealth:    u.MaxHealth,
		DaysAlive:    u.DaysAlive,
		LastActiveOn: fromDate(u.LastActiveOn),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toGormHabit(h *domain.Habit) *HabitGorm {
	return &HabitGorm{
		ID:            h.ID,
		UserID:        h.UserID,
		Name:          h.Name,
		Type:          string(h.Type),
		Nature:        string(h.Nature),
		XPValue:       h.XPValue,
		CoverPhoto:    h.CoverPhoto,
		Streak:        h.Streak,
		LongestStreak: h.LongestStreak,
		LastDone:      toDate(h.LastDone),
		DoneToday:     h.DoneToday,
		CreatedAt:     h.CreatedAt,
	}
}

func toDomainHabit(h *HabitGorm) *domain.Habit {
	return &domain.Habit{
		ID:            h.ID,
		UserID:        h.UserID,
		Name:          h.Name,
		Type:          domain.HabitType(h.Type),
		Nature:        domain.HabitNature(h.Nature),
		XPValue:       h.XPValue,
		CoverPhoto:    h.CoverPhoto,
		Streak:        h.Streak,
		LongestStreak: h.LongestStreak,
		LastDone:      fromDate(h.LastDone),
		DoneToday:     h.DoneToday,
		CreatedAt:     h.CreatedAt,
	}
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}

func fromDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := dateOf(*d)
	return &t
}

// dateOf normalises a scanned date column to midnight UTC.
func dateOf(d datatypes.Date) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
