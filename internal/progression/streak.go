package progression

// StreakUpdate is the result of advancing a user's streak after a
// qualifying habit completion.
type StreakUpdate struct {
	Current        uint32
	Longest        uint32
	LastActionDate Date
}

// AdvanceStreak applies one qualifying completion performed on
// `today` against the prior streak state. The date comparison, not
// the completion count, governs the streak: repeated completions on
// the same day leave the streak unchanged while still moving
// LastActionDate forward.
//
//   - first ever completion (last == nil): streak starts at 1
//   - last == today:     unchanged, already counted today
//   - last == yesterday: streak continues, +1
//   - gap of 2+ days:    streak resets to 1
//
// Longest is the running maximum and never decreases.
func AdvanceStreak(current, longest uint32, last *Date, today Date) StreakUpdate {
	next := uint32(1)
	switch {
	case last == nil:
		// first qualifying action ever
	case *last == today:
		next = current
	case *last == today.AddDays(-1):
		next = current + 1
	}
	if next > longest {
		longest = next
	}
	return StreakUpdate{Current: next, Longest: longest, LastActionDate: today}
}
