package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyXP(t *testing.T) {
	cases := []struct {
		name      string
		currentXP uint64
		delta     uint32
		wantXP    uint64
		wantLevel uint32
	}{
		{"fresh account", 0, 50, 50, 1},
		{"crosses a level boundary", 90, 20, 110, 2},
		{"lands exactly on boundary", 80, 20, 100, 2},
		{"one below boundary", 0, 99, 99, 1},
		{"several levels at once", 0, 350, 350, 4},
		{"deep into the game", 995, 10, 1005, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			xp, level := ApplyXP(tc.currentXP, tc.delta)
			assert.Equal(t, tc.wantXP, xp)
			assert.Equal(t, tc.wantLevel, level)
		})
	}
}

func TestLevelForXPFormula(t *testing.T) {
	// level = xp/100 + 1 across the whole range
	for _, xp := range []uint64{0, 1, 99, 100, 101, 199, 200, 999, 1000, 12345} {
		assert.Equal(t, uint32(xp/100)+1, LevelForXP(xp), "xp=%d", xp)
	}
}
