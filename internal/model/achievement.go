package model

import "time"

// Tier is the rarity classification of an achievement. The strings do
// not sort in rarity order; use Rank to compare tiers.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierPrata    Tier = "prata"
	TierOuro     Tier = "ouro"
	TierDiamante Tier = "diamante"
	TierReliquia Tier = "reliquia"
)

// tierRank maps each tier to its position in the rarity order.
var tierRank = map[Tier]int{
	TierBronze:   0,
	TierPrata:    1,
	TierOuro:     2,
	TierDiamante: 3,
	TierReliquia: 4,
}

// Rank returns the ordinal position of the tier (bronze lowest).
// Unknown tiers rank below bronze.
func (t Tier) Rank() int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return -1
}

// Valid reports whether the tier is one of the known values.
func (t Tier) Valid() bool { _, ok := tierRank[t]; return ok }

// Achievement is a row of the static `achievements` catalog. The
// catalog rarely changes, so it is cached process-wide; user progress
// lives in `user_achievements`, never here. Hidden achievements keep
// their name, description and icon masked until unlocked.
//
// Fields:
//
//	ID               – primary key identifier.
//	Code             – stable machine-readable code (e.g. "first_step").
//	Name             – display name.
//	Description      – display description.
//	Icon             – emoji or icon reference rendered by clients.
//	Tier             – rarity classification.
//	Category         – display grouping (streak, xp, level, habits, social, special).
//	Requirement      – which live stat gates the unlock.
//	RequirementValue – numeric threshold the stat must reach.
//	IsHidden         – masked until unlocked.
type Achievement struct {
	ID               uint64 // achievements.id
	Code             string // achievements.code
	Name             string // achievements.name
	Description      string // achievements.description
	Icon             string // achievements.icon
	Tier             Tier   // achievements.tier
	Category         string // achievements.category
	Requirement      string // achievements.requirement_type
	RequirementValue uint64 // achievements.requirement_value
	IsHidden         bool   // achievements.is_hidden
}

// UserAchievement joins a user to an unlocked achievement. Existence
// of the row is the sole definition of "unlocked"; there is at most
// one row per (user, achievement) pair and UnlockedAt is immutable
// once set. SharedAt records the first time the user shared it.
type UserAchievement struct {
	UserID        uint64     // user_achievements.user_id
	AchievementID uint64     // user_achievements.achievement_id
	UnlockedAt    time.Time  // user_achievements.unlocked_at
	SharedAt      *time.Time // user_achievements.shared_at (nullable)
}
