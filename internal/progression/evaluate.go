package progression

import (
	"github.com/iliyamo/habit-quest/internal/model"
)

// Requirement identifies which live value gates an achievement or
// mission. The set is closed except for RequirementSpecial, which is
// satisfied by an externally registered predicate instead of a
// numeric threshold.
type Requirement string

const (
	RequirementStreakDays      Requirement = "streak_days"
	RequirementTotalXP         Requirement = "total_xp"
	RequirementLevelReached    Requirement = "level_reached"
	RequirementHabitsCompleted Requirement = "habits_completed"
	RequirementHabitsCreated   Requirement = "habits_created"
	RequirementSharesMade      Requirement = "shares_made"
	RequirementSpecial         Requirement = "special_condition"
)

// Snapshot is the post-update view of a user's aggregates handed to
// the evaluator. It is assembled by the service layer after all stat
// and profile writes for the triggering action have been applied.
type Snapshot struct {
	XP                   uint64
	Level                uint32
	CurrentStreak        uint32
	LongestStreak        uint32
	TotalHabitsCompleted uint64
	TotalHabitsCreated   uint64
	TotalShares          uint64
}

// liveValue maps a numeric requirement to the stat it compares
// against. The second return is false for special_condition and for
// unknown requirement strings coming out of the catalog.
func (r Requirement) liveValue(s Snapshot) (uint64, bool) {
	switch r {
	case RequirementStreakDays:
		return uint64(s.CurrentStreak), true
	case RequirementTotalXP:
		return s.XP, true
	case RequirementLevelReached:
		return uint64(s.Level), true
	case RequirementHabitsCompleted:
		return s.TotalHabitsCompleted, true
	case RequirementHabitsCreated:
		return s.TotalHabitsCreated, true
	case RequirementSharesMade:
		return s.TotalShares, true
	}
	return 0, false
}

// SpecialPredicate decides a special_condition achievement from the
// snapshot. Predicates are registered by achievement code at service
// construction; an achievement whose code has no predicate simply
// never unlocks through evaluation.
type SpecialPredicate func(Snapshot) bool

// EvaluateAchievements returns the IDs of catalog achievements that
// newly qualify against the snapshot. Entries already in `unlocked`
// are skipped, so re-running with identical inputs yields nothing new
// and an unlock is never revoked, even if a stat were to decrease.
func EvaluateAchievements(catalog []model.Achievement, unlocked map[uint64]bool, snap Snapshot, specials map[string]SpecialPredicate) []uint64 {
	var newly []uint64
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		req := Requirement(a.Requirement)
		if req == RequirementSpecial {
			if pred, ok := specials[a.Code]; ok && pred(snap) {
				newly = append(newly, a.ID)
			}
			continue
		}
		live, ok := req.liveValue(snap)
		if ok && live >= a.RequirementValue {
			newly = append(newly, a.ID)
		}
	}
	return newly
}
