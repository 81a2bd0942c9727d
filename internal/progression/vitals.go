package progression

import (
	"time"

	"habitrpg/internal/clock"
	"habitrpg/internal/domain"
)

const (
	baseVitalCap     = 100
	vitalCapPerLevel = 10
)

// VitalCap is the mana and health ceiling for a level.
func VitalCap(level int) int {
	return baseVitalCap + (level-1)*vitalCapPerLevel
}

// NewUser fills the progression fields of a freshly registered account.
func NewUser(u domain.User) domain.User {
	u.XP = 0
	u.Level = 1
	u.LevelName = RankFor(1)
	u.MaxMana = VitalCap(1)
	u.MaxHealth = VitalCap(1)
	u.Mana = u.MaxMana
	u.Health = u.MaxHealth
	return u
}

// Apply adds an effect to u. XP never drops below zero, the touched
// resource stays within [0, max] and level and rank are derived from the
// resulting XP.
func Apply(u domain.User, eff Effect) domain.User {
	u.XP = max(0, u.XP+eff.XPDelta)

	switch eff.Resource {
	case domain.ResourceMana:
		u.Mana = clamp(u.Mana+eff.ResourceDelta, 0, u.MaxMana)
	case domain.ResourceHealth:
		u.Health = clamp(u.Health+eff.ResourceDelta, 0, u.MaxHealth)
	}

	u.Level = LevelFor(u.XP)
	u.LevelName = RankFor(u.Level)
	return u
}

// RefillForNewDay rescales the caps to the current level and fills both pools.
func RefillForNewDay(u domain.User) domain.User {
	u.MaxMana = VitalCap(u.Level)
	u.MaxHealth = VitalCap(u.Level)
	u.Mana = u.MaxMana
	u.Health = u.MaxHealth
	return u
}

// MarkActive counts today towards DaysAlive once.
func MarkActive(u domain.User, today time.Time) domain.User {
	day := clock.Day(today)
	if u.LastActiveOn != nil && u.LastActiveOn.Equal(day) {
		return u
	}
	u.DaysAlive++
	u.LastActiveOn = &day
	return u
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
