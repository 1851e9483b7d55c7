package progression

// XPPerLevel is the fixed amount of XP each level spans. Level 1
// starts at 0 XP, level 2 at 100, and so on.
const XPPerLevel = 100

// LevelForXP derives the level for a given XP total.
func LevelForXP(xp uint64) uint32 {
	return uint32(xp/XPPerLevel) + 1
}

// ApplyXP adds delta to the current XP total and returns the new
// total together with the level it lands on. The caller persists
// both values in the same write so they never drift apart.
func ApplyXP(currentXP uint64, delta uint32) (newXP uint64, newLevel uint32) {
	newXP = currentXP + uint64(delta)
	return newXP, LevelForXP(newXP)
}
