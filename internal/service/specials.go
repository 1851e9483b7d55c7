package service

import "github.com/iliyamo/habit-quest/internal/progression"

// DefaultSpecials is the predicate registry for the special_condition
// achievements shipped in the seed catalog. Catalog rows whose code
// has no entry here never unlock through evaluation.
func DefaultSpecials() map[string]progression.SpecialPredicate {
	return map[string]progression.SpecialPredicate{
		// touched every activity counter at least once
		"all_rounder": func(s progression.Snapshot) bool {
			return s.TotalHabitsCreated >= 1 && s.TotalHabitsCompleted >= 1 && s.TotalShares >= 1
		},
		// rebuilt a week-long streak after losing a two-week one
		"phoenix": func(s progression.Snapshot) bool {
			return s.LongestStreak >= 14 && s.CurrentStreak >= 7 && s.CurrentStreak < s.LongestStreak
		},
	}
}
