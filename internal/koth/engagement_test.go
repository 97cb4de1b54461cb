package koth

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koth/internal/orbit"
)

// TestGuardReroute implements §8 S3: a successful guard reroutes the
// attack edge onto the guardian, and the queued shoot then resolves
// against the guardian instead of the originally targeted seeker.
func TestGuardReroute(t *testing.T) {
	aBludger := TokenID{Player: Alpha, Role: Bludger, Index: 1}
	bSeeker := TokenID{Player: Beta, Role: Seeker, Index: 0}
	bBludger := TokenID{Player: Beta, Role: Bludger, Index: 1}

	states := map[TokenID]*orbit.TokenState{
		aBludger: {Position: 1, Fuel: 100, Ammo: 1, Active: true},
		bSeeker:  {Position: 1, Fuel: 100, Ammo: 0, Active: true},
		bBludger: {Position: 1, Fuel: 100, Ammo: 1, Active: true},
	}

	declarations := []Declaration{
		{Actor: aBludger, Kind: ActionShootKind, Target: bSeeker, Prob: 1.0},
		{Actor: bBludger, Kind: ActionGuardKind, Target: bSeeker, Prob: 1.0},
	}

	rng := rand.New(rand.NewSource(1))
	outcomes := Resolve(declarations, states, 0.0, rng)
	require.Len(t, outcomes, 2)

	guardOutcome := outcomes[0]
	assert.Equal(t, ActionGuardKind, guardOutcome.Kind)
	require.NotNil(t, guardOutcome.Attacker)
	assert.Equal(t, aBludger, *guardOutcome.Attacker)
	assert.Equal(t, bSeeker, guardOutcome.Target)
	require.NotNil(t, guardOutcome.Guardian)
	assert.Equal(t, bBludger, *guardOutcome.Guardian)
	assert.Equal(t, 1.0, guardOutcome.Probability)
	assert.True(t, guardOutcome.Success)

	shootOutcome := outcomes[1]
	assert.Equal(t, ActionShootKind, shootOutcome.Kind)
	assert.Equal(t, aBludger, *shootOutcome.Attacker)
	assert.Equal(t, bBludger, shootOutcome.Target)
	assert.True(t, shootOutcome.Success)

	Enact(outcomes, states, 0.0)
	assert.Equal(t, 0, states[aBludger].Ammo)
	assert.Zero(t, states[bBludger].Fuel)
	assert.Equal(t, 100.0, states[bSeeker].Fuel)
}

func TestTrivialGuardWhenNoIncidentAttack(t *testing.T) {
	bSeeker := TokenID{Player: Beta, Role: Seeker, Index: 0}
	bBludger := TokenID{Player: Beta, Role: Bludger, Index: 1}
	states := map[TokenID]*orbit.TokenState{
		bSeeker:  {Position: 1, Fuel: 100, Active: true},
		bBludger: {Position: 1, Fuel: 100, Ammo: 1, Active: true},
	}

	declarations := []Declaration{
		{Actor: bBludger, Kind: ActionGuardKind, Target: bSeeker, Prob: 0.9},
	}
	rng := rand.New(rand.NewSource(1))
	outcomes := Resolve(declarations, states, 0.0, rng)

	require.Len(t, outcomes, 1)
	assert.Equal(t, ActionGuardKind, outcomes[0].Kind)
	assert.Nil(t, outcomes[0].Attacker)
	assert.False(t, outcomes[0].Success)
}

func TestMutualShootKillsResolveConsistently(t *testing.T) {
	a := TokenID{Player: Alpha, Role: Bludger, Index: 1}
	b := TokenID{Player: Beta, Role: Bludger, Index: 1}
	states := map[TokenID]*orbit.TokenState{
		a: {Position: 1, Fuel: 100, Ammo: 1, Active: true},
		b: {Position: 1, Fuel: 100, Ammo: 1, Active: true},
	}

	declarations := []Declaration{
		{Actor: a, Kind: ActionShootKind, Target: b, Prob: 1.0},
		{Actor: b, Kind: ActionShootKind, Target: a, Prob: 1.0},
	}
	rng := rand.New(rand.NewSource(42))
	outcomes := Resolve(declarations, states, 0.0, rng)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.True(t, o.Success)
	}

	Enact(outcomes, states, 0.0)
	assert.Zero(t, states[a].Fuel)
	assert.Zero(t, states[b].Fuel)
}

func TestEngagementGraphEndsWithZeroRemainingEdges(t *testing.T) {
	// §8 invariant 3: post-resolution, the graph has zero remaining
	// edges. We assert this indirectly: every declared non-NoOp edge
	// produced exactly one terminal outcome (no edge is left
	// unresolved after guard reroute + shoot + collide).
	a := TokenID{Player: Alpha, Role: Bludger, Index: 1}
	b := TokenID{Player: Beta, Role: Bludger, Index: 1}
	states := map[TokenID]*orbit.TokenState{
		a: {Position: 1, Fuel: 100, Ammo: 1, Active: true},
		b: {Position: 1, Fuel: 100, Ammo: 1, Active: true},
	}
	declarations := []Declaration{
		{Actor: a, Kind: ActionCollideKind, Target: b, Prob: 0.5},
	}
	rng := rand.New(rand.NewSource(7))
	outcomes := Resolve(declarations, states, 0.0, rng)
	require.Len(t, outcomes, 1)
	assert.Equal(t, ActionCollideKind, outcomes[0].Kind)
}
