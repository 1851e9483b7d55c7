package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/habit-quest/internal/model"
)

func testCatalog() []model.Achievement {
	return []model.Achievement{
		{ID: 1, Code: "first_step", Tier: model.TierBronze, Requirement: "habits_completed", RequirementValue: 1},
		{ID: 2, Code: "on_fire", Tier: model.TierBronze, Requirement: "streak_days", RequirementValue: 3},
		{ID: 3, Code: "centurion", Tier: model.TierPrata, Requirement: "total_xp", RequirementValue: 100},
		{ID: 4, Code: "level_two", Tier: model.TierBronze, Requirement: "level_reached", RequirementValue: 2},
		{ID: 5, Code: "architect", Tier: model.TierPrata, Requirement: "habits_created", RequirementValue: 5},
		{ID: 6, Code: "influencer", Tier: model.TierOuro, Requirement: "shares_made", RequirementValue: 3},
		{ID: 7, Code: "night_owl", Tier: model.TierReliquia, Requirement: "special_condition", IsHidden: true},
	}
}

func TestEvaluateThresholds(t *testing.T) {
	snap := Snapshot{
		XP:                   105,
		Level:                2,
		CurrentStreak:        3,
		TotalHabitsCompleted: 1,
	}
	got := EvaluateAchievements(testCatalog(), map[uint64]bool{}, snap, nil)
	assert.ElementsMatch(t, []uint64{1, 2, 3, 4}, got)
}

func TestEvaluateSkipsAlreadyUnlocked(t *testing.T) {
	snap := Snapshot{XP: 105, Level: 2, CurrentStreak: 3, TotalHabitsCompleted: 1}
	unlocked := map[uint64]bool{1: true, 2: true, 3: true, 4: true}
	// identical inputs a second time: nothing new, nothing revoked
	assert.Empty(t, EvaluateAchievements(testCatalog(), unlocked, snap, nil))
}

func TestEvaluateNeverRevokes(t *testing.T) {
	// streak dropped back to 1 after the streak achievement unlocked;
	// the unlock must stay out of the result rather than error or flap
	snap := Snapshot{CurrentStreak: 1}
	unlocked := map[uint64]bool{2: true}
	got := EvaluateAchievements(testCatalog(), unlocked, snap, nil)
	assert.NotContains(t, got, uint64(2))
}

func TestEvaluateSpecialCondition(t *testing.T) {
	snap := Snapshot{LongestStreak: 30}
	specials := map[string]SpecialPredicate{
		"night_owl": func(s Snapshot) bool { return s.LongestStreak >= 30 },
	}
	got := EvaluateAchievements(testCatalog(), map[uint64]bool{}, snap, specials)
	assert.Equal(t, []uint64{7}, got)

	// without a registered predicate the special entry never fires
	got = EvaluateAchievements(testCatalog(), map[uint64]bool{}, snap, nil)
	assert.Empty(t, got)
}

func TestEvaluateUnknownRequirementIgnored(t *testing.T) {
	catalog := []model.Achievement{
		{ID: 9, Code: "mystery", Requirement: "phase_of_the_moon", RequirementValue: 1},
	}
	assert.Empty(t, EvaluateAchievements(catalog, map[uint64]bool{}, Snapshot{XP: 1 << 30}, nil))
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, model.TierBronze.Rank() < model.TierPrata.Rank())
	assert.True(t, model.TierPrata.Rank() < model.TierOuro.Rank())
	assert.True(t, model.TierOuro.Rank() < model.TierDiamante.Rank())
	assert.True(t, model.TierDiamante.Rank() < model.TierReliquia.Rank())
	assert.False(t, model.Tier("platina").Valid())
}
