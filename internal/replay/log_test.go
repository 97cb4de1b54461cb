package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndTurnsRoundTrip(t *testing.T) {
	log, err := Open()
	require.NoError(t, err)
	defer log.Close()

	type action struct {
		Token string
		Kind  string
	}
	actions := []action{{Token: "alpha:seeker:0", Kind: "noop"}}

	require.NoError(t, log.Append(0, "movementPhase", actions, nil, "digest-0"))
	require.NoError(t, log.Append(1, "engagementPhase", actions, []string{"shoot-outcome"}, "digest-1"))

	entries, err := log.Turns()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 0, entries[0].Turn)
	assert.Equal(t, "movementPhase", entries[0].Phase)
	assert.Contains(t, entries[0].Actions, "alpha:seeker:0")
	assert.Equal(t, "digest-0", entries[0].StateDigest)

	assert.Equal(t, 1, entries[1].Turn)
	assert.Equal(t, "engagementPhase", entries[1].Phase)
	assert.Contains(t, entries[1].Outcomes, "shoot-outcome")
}

func TestTurnsEmptyBeforeAnyAppend(t *testing.T) {
	log, err := Open()
	require.NoError(t, err)
	defer log.Close()

	entries, err := log.Turns()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCloseIsIdempotentSafe(t *testing.T) {
	log, err := Open()
	require.NoError(t, err)
	require.NoError(t, log.Close())
	require.NoError(t, log.Close())
}
