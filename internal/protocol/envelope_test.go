package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeEncodeDecodeRoundTrip(t *testing.T) {
	env := Envelope{APIVersion: APIVersion, Context: ContextEcho, GameID: "abc123"}
	payload := EchoProbeData{TurnNumber: 3, TurnPhase: "movementPhase"}
	require.NoError(t, env.EncodeData(payload))

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env.APIVersion, decoded.APIVersion)
	assert.Equal(t, env.Context, decoded.Context)
	assert.Equal(t, env.GameID, decoded.GameID)

	var out EchoProbeData
	require.NoError(t, decoded.DecodeData(&out))
	assert.Equal(t, payload, out)
}

func TestIsPhaseContext(t *testing.T) {
	assert.True(t, ContextMovementPhase.IsPhaseContext())
	assert.True(t, ContextEngagementPhase.IsPhaseContext())
	assert.True(t, ContextDriftPhase.IsPhaseContext())
	assert.False(t, ContextEcho.IsPhaseContext())
	assert.False(t, ContextPlayerRegistration.IsPhaseContext())
	assert.False(t, ContextGameReset.IsPhaseContext())
}

func TestContextValid(t *testing.T) {
	assert.True(t, ContextEcho.valid())
	assert.False(t, Context("bogus").valid())
}

func TestDataKindOnlyPeeksWithoutFullDecode(t *testing.T) {
	env := Envelope{}
	require.NoError(t, env.EncodeData(PlayerRegistrationRequestData{
		Kind:  KindPlayerRegistrationRequest,
		Alias: "player-one",
	}))

	kind, err := env.DataKindOnly()
	require.NoError(t, err)
	assert.Equal(t, string(KindPlayerRegistrationRequest), kind)
}

func TestEnvelopeOmitsErrorWhenNil(t *testing.T) {
	env := Envelope{APIVersion: APIVersion, Context: ContextEcho, GameID: "g1"}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"error"`)
}

func TestEnvelopeIncludesErrorWhenSet(t *testing.T) {
	env := Envelope{
		APIVersion: APIVersion,
		Context:    ContextEcho,
		GameID:     "g1",
		Error:      NewError(VersionMismatch, "expected %s, got %s", "1.0.0", "0.9.0"),
	}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"error"`)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Error)
	assert.Equal(t, VersionMismatch, decoded.Error.Code)
}
