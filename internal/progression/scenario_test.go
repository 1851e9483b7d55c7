package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/habit-quest/internal/model"
)

// The full pure pipeline for one completion: a user at 95 XP with a
// two-day streak completes a habit worth 10 XP and crosses into
// level 2, which unlocks a level_reached achievement.
func TestCompletionScenario(t *testing.T) {
	day := Date{Year: 2025, Month: time.May, Day: 20}
	yesterday := day.AddDays(-1)

	newXP, newLevel := ApplyXP(95, 10)
	assert.Equal(t, uint64(105), newXP)
	assert.Equal(t, uint32(2), newLevel)
	leveledUp := newLevel > LevelForXP(95)
	assert.True(t, leveledUp)

	streak := AdvanceStreak(2, 5, &yesterday, day)
	assert.Equal(t, uint32(3), streak.Current)
	assert.Equal(t, uint32(5), streak.Longest)

	snap := Snapshot{
		XP:                   newXP,
		Level:                newLevel,
		CurrentStreak:        streak.Current,
		LongestStreak:        streak.Longest,
		TotalHabitsCompleted: 26, // 25 before this completion
	}
	catalog := []model.Achievement{
		{ID: 4, Code: "level_two", Requirement: "level_reached", RequirementValue: 2},
	}
	newly := EvaluateAchievements(catalog, map[uint64]bool{}, snap, nil)
	require.Len(t, newly, 1)
	assert.Equal(t, uint64(4), newly[0])
}
