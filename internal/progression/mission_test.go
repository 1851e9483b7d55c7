package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyMissions() []MissionInstance {
	return []MissionInstance{
		{ID: 10, TemplateID: 1, Name: "Complete 3 habits", Requirement: RequirementHabitsCompleted, RequirementValue: 3, XPReward: 30, CurrentProgress: 2},
		{ID: 11, TemplateID: 2, Name: "Earn 50 XP", Requirement: RequirementTotalXP, RequirementValue: 50, XPReward: 20, CurrentProgress: 10},
		{ID: 12, TemplateID: 3, Name: "Already done", Requirement: RequirementHabitsCompleted, RequirementValue: 1, XPReward: 10, CurrentProgress: 1, IsCompleted: true},
	}
}

func TestAdvanceMissionsCompletionFiresOnce(t *testing.T) {
	res := AdvanceMissions(dailyMissions(), Action{Kind: RequirementHabitsCompleted, Magnitude: 1})

	require.Len(t, res.NewlyCompleted, 1)
	done := res.NewlyCompleted[0]
	assert.Equal(t, uint64(10), done.ID)
	assert.True(t, done.IsCompleted)
	assert.Equal(t, uint32(3), done.CurrentProgress)
	assert.Equal(t, uint32(30), done.XPReward)

	// a stray duplicate event against the already-completed state
	// advances nothing and re-emits no reward
	again := AdvanceMissions([]MissionInstance{done}, Action{Kind: RequirementHabitsCompleted, Magnitude: 1})
	assert.Empty(t, again.Updated)
	assert.Empty(t, again.NewlyCompleted)
}

func TestAdvanceMissionsMagnitude(t *testing.T) {
	res := AdvanceMissions(dailyMissions(), Action{Kind: RequirementTotalXP, Magnitude: 25})
	require.Len(t, res.Updated, 1)
	assert.Equal(t, uint64(11), res.Updated[0].ID)
	assert.Equal(t, uint32(35), res.Updated[0].CurrentProgress)
	assert.Empty(t, res.NewlyCompleted)
}

func TestAdvanceMissionsProgressCappedAtRequirement(t *testing.T) {
	res := AdvanceMissions(dailyMissions(), Action{Kind: RequirementTotalXP, Magnitude: 500})
	require.Len(t, res.NewlyCompleted, 1)
	assert.Equal(t, uint32(50), res.NewlyCompleted[0].CurrentProgress)
}

func TestAdvanceMissionsIgnoresOtherKinds(t *testing.T) {
	res := AdvanceMissions(dailyMissions(), Action{Kind: RequirementSharesMade, Magnitude: 1})
	assert.Empty(t, res.Updated)
	assert.Empty(t, res.NewlyCompleted)
}

func TestAdvanceMissionsZeroMagnitude(t *testing.T) {
	res := AdvanceMissions(dailyMissions(), Action{Kind: RequirementHabitsCompleted})
	assert.Empty(t, res.Updated)
}

func TestAdvanceMissionsDoesNotMutateInput(t *testing.T) {
	in := dailyMissions()
	_ = AdvanceMissions(in, Action{Kind: RequirementHabitsCompleted, Magnitude: 1})
	assert.Equal(t, uint32(2), in[0].CurrentProgress)
	assert.False(t, in[0].IsCompleted)
}
