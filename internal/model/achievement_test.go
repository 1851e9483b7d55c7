package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierRankOrdering(t *testing.T) {
	ordered := []Tier{TierBronze, TierPrata, TierOuro, TierDiamante, TierReliquia}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank(),
			"%s must outrank %s", ordered[i], ordered[i-1])
	}
}

func TestTierRankDisagreesWithStringOrder(t *testing.T) {
	// "ouro" sorts before "prata" lexically, so tier comparison has to
	// go through Rank rather than <.
	assert.True(t, string(TierOuro) < string(TierPrata))
	assert.Greater(t, TierOuro.Rank(), TierPrata.Rank())
}

func TestTierRankUnknown(t *testing.T) {
	assert.Equal(t, -1, Tier("mithril").Rank())
	assert.False(t, Tier("mithril").Valid())
	assert.True(t, TierBronze.Valid())
}
