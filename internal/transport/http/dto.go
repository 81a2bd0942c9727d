package handlers

import (
	"time"

	"habitrpg/internal/domain"
)

type habitResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	HabitType     string  `json:"habit_type"`
	HabitNature   string  `json:"habit_nature"`
	XPValue       int     `json:"xp_value"`
	CoverPhoto    string  `json:"cover_photo,omitempty"`
	Streak        int     `json:"streak"`
	LongestStreak int     `json:"longest_streak"`
	LastDone      *string `json:"last_done"`
	DoneToday     bool    `json:"done_today"`
}

func toHabitResponse(h domain.Habit) habitResponse {
	return habitResponse{
		ID:            h.ID.String(),
		Name:          h.Name,
		HabitType:     string(h.Type),
		HabitNature:   string(h.Nature),
		XPValue:       h.XPValue,
		CoverPhoto:    h.CoverPhoto,
		Streak:        h.Streak,
		LongestStreak: h.LongestStreak,
		LastDone:      formatDay(h.LastDone),
		DoneToday:     h.DoneToday,
	}
}

type weeklyResponse struct {
	WeekStart       string `json:"week_start"`
	HabitsCompleted int    `json:"habits_completed"`
	GoodHabits      int    `json:"good_habits"`
	BadHabits       int    `json:"bad_habits"`
	XPGained        int    `json:"xp_gained"`
}

func toWeeklyResponse(p domain.WeeklyProgress) weeklyResponse {
	return weeklyResponse{
		WeekStart:       p.WeekStart.Format(time.DateOnly),
		HabitsCompleted: p.HabitsCompleted,
		GoodHabits:      p.GoodHabits,
		BadHabits:       p.BadHabits,
		XPGained:        p.XPGained,
	}
}

type profileResponse struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	AvatarID      int     `json:"avatar_id"`
	XP            int     `json:"xp"`
	Level         int     `json:"level"`
	Rank          string  `json:"rank"`
	Mana          int     `json:"mana"`
	MaxMana       int     `json:"max_mana"`
	Health        int     `json:"health"`
	MaxHealth     int     `json:"max_health"`
	DaysAlive     int     `json:"days_alive"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	LastCompleted *string `json:"last_completed"`
	MemberSince   string  `json:"member_since"`
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		ID:            p.ID.String(),
		Username:      p.Username,
		Email:         p.Email,
		AvatarID:      p.AvatarID,
		XP:            p.XP,
		Level:         p.Level,
		Rank:          p.LevelName,
		Mana:          p.Mana,
		MaxMana:       p.MaxMana,
		Health:        p.Health,
		MaxHealth:     p.MaxHealth,
		DaysAlive:     p.DaysAlive,
		CurrentStreak: p.Streak.CurrentStreak,
		LongestStreak: p.Streak.LongestStreak,
		LastCompleted: formatDay(p.Streak.LastCompleted),
		MemberSince:   p.CreatedAt.UTC().Format(time.DateOnly),
	}
}

type leaderboardEntry struct {
	Position int    `json:"position"`
	Username string `json:"username"`
	AvatarID int    `json:"avatar_id"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Rank     string `json:"rank"`
}

type rewardResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

type purchaseResponse struct {
	ID          uint      `json:"id"`
	RewardID    uint      `json:"reward_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type avatarResponse struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
