package koth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koth/internal/orbit"
)

func TestBuildBoardSymmetric(t *testing.T) {
	// S2: max_ring=5, min_ring=1, geo_ring=4, mirrored init pattern,
	// one Seeker + 10 Bludgers per player, 22 tokens total.
	cfg := DefaultConfig()
	grid, err := orbit.NewGrid(cfg.MinRing, cfg.MaxRing)
	require.NoError(t, err)

	tokens, states, hills, err := BuildBoard(grid, cfg)
	require.NoError(t, err)

	assert.Len(t, tokens, 22)
	assert.NotEqual(t, hills[Alpha], hills[Beta])

	var nSeekersAlpha, nBludgersAlpha int
	for _, tok := range tokens {
		if tok.Player != Alpha {
			continue
		}
		if tok.Role == Seeker {
			nSeekersAlpha++
			assert.Equal(t, hills[Alpha], states[tok].Position)
		} else {
			nBludgersAlpha++
		}
	}
	assert.Equal(t, 1, nSeekersAlpha)
	assert.Equal(t, 10, nBludgersAlpha)
}

func TestBuildBoardGhostPadding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Players[Beta].InitPattern = orbit.BoardPattern{{RelAzim: 0, Count: 1}}

	grid, err := orbit.NewGrid(cfg.MinRing, cfg.MaxRing)
	require.NoError(t, err)

	tokens, states, _, err := BuildBoard(grid, cfg)
	require.NoError(t, err)

	var nAlpha, nBeta, nGhosts int
	for _, tok := range tokens {
		if tok.Player == Alpha {
			nAlpha++
		} else {
			nBeta++
			if states[tok].Ghost {
				nGhosts++
				assert.False(t, states[tok].Active)
				assert.Zero(t, states[tok].Fuel)
				assert.Zero(t, states[tok].Ammo)
			}
		}
	}
	assert.Equal(t, nAlpha, nBeta)
	assert.Equal(t, nAlpha-2, nGhosts) // beta has seeker+1 bludger = 2 real tokens
}
