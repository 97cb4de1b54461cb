package session

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koth/internal/koth"
	"koth/internal/protocol"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(koth.DefaultConfig(), 7, discardLogger(), discardLogger())
	require.NoError(t, err)
	return s
}

func registerBoth(t *testing.T, s *Server) (aliceUUID, bobUUID string) {
	t.Helper()
	aliceReq := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextPlayerRegistration}
	require.NoError(t, aliceReq.EncodeData(protocol.PlayerRegistrationRequestData{Kind: protocol.KindPlayerRegistrationRequest, Alias: "alice"}))
	aliceResp := s.HandleRequest(aliceReq)
	require.Nil(t, aliceResp.Error)
	var aliceData protocol.PlayerRegistrationResponseData
	require.NoError(t, aliceResp.DecodeData(&aliceData))
	assert.Equal(t, koth.Alpha.String(), aliceData.Slot)

	bobReq := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextPlayerRegistration}
	require.NoError(t, bobReq.EncodeData(protocol.PlayerRegistrationRequestData{Kind: protocol.KindPlayerRegistrationRequest, Alias: "bob"}))
	bobResp := s.HandleRequest(bobReq)
	require.Nil(t, bobResp.Error)
	var bobData protocol.PlayerRegistrationResponseData
	require.NoError(t, bobResp.DecodeData(&bobData))
	assert.Equal(t, koth.Beta.String(), bobData.Slot)

	return aliceData.UUID, bobData.UUID
}

func TestHandleRequestEchoBypassesVersionCheck(t *testing.T) {
	s := newTestServer(t)
	req := protocol.Envelope{APIVersion: "wrong-version", Context: protocol.ContextEcho}
	resp := s.HandleRequest(req)
	assert.Nil(t, resp.Error)
	assert.Equal(t, protocol.ContextEcho, resp.Context)
}

func TestHandleRequestRejectsVersionMismatch(t *testing.T) {
	s := newTestServer(t)
	req := protocol.Envelope{APIVersion: "0.0.1", Context: protocol.ContextPlayerRegistration}
	resp := s.HandleRequest(req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.VersionMismatch, resp.Error.Code)
}

func TestHandleRequestRejectsUnknownContext(t *testing.T) {
	s := newTestServer(t)
	req := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.Context("bogus")}
	resp := s.HandleRequest(req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.UnknownContext, resp.Error.Code)
}

func TestRegistrationFullTriggersReset(t *testing.T) {
	s := newTestServer(t)
	var published []protocol.Envelope
	s.Publish = func(env protocol.Envelope) { published = append(published, env) }

	registerBoth(t, s)

	require.Len(t, published, 1)
	assert.Equal(t, protocol.ContextGameReset, published[0].Context)
	var resetData protocol.GameResetResponseData
	require.NoError(t, published[0].DecodeData(&resetData))
	assert.Len(t, resetData.PlayerRegistry, 2)
}

func TestPhaseRequestUnregisteredIdentityRejected(t *testing.T) {
	s := newTestServer(t)
	req := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextMovementPhase}
	require.NoError(t, req.EncodeData(protocol.PhaseRequestData{Kind: protocol.KindMovementPhaseRequest, Alias: "ghost", UUID: "none"}))
	resp := s.HandleRequest(req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.UnregisteredIdentity, resp.Error.Code)
}

func TestPhaseRequestBarrierWaitsThenAdvances(t *testing.T) {
	s := newTestServer(t)
	aliceUUID, bobUUID := registerBoth(t, s)

	aliceReq := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextMovementPhase}
	require.NoError(t, aliceReq.EncodeData(protocol.PhaseRequestData{
		Kind: protocol.KindMovementPhaseRequest, Alias: "alice", UUID: aliceUUID,
	}))
	aliceResp := s.HandleRequest(aliceReq)
	require.Nil(t, aliceResp.Error)
	var waiting protocol.WaitingResponseData
	require.NoError(t, aliceResp.DecodeData(&waiting))
	assert.Equal(t, protocol.KindWaitingResponse, waiting.Kind)

	bobReq := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextMovementPhase}
	require.NoError(t, bobReq.EncodeData(protocol.PhaseRequestData{
		Kind: protocol.KindMovementPhaseRequest, Alias: "bob", UUID: bobUUID,
	}))
	bobResp := s.HandleRequest(bobReq)
	require.Nil(t, bobResp.Error)
	var advancing protocol.AdvancingResponseData
	require.NoError(t, bobResp.DecodeData(&advancing))
	assert.Equal(t, protocol.KindAdvancingResponse, advancing.Kind)
	assert.Equal(t, "engagementPhase", advancing.GameState.TurnPhase)
}

func TestPhaseRequestMismatchedContextsRollsBack(t *testing.T) {
	// gameReset is exempt from the phase-match check, so alice can
	// queue it while the engine sits in movementPhase; when bob then
	// arrives with the (also valid) movementPhase context, the two
	// queued contexts disagree.
	s := newTestServer(t)
	aliceUUID, bobUUID := registerBoth(t, s)

	aliceReq := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextGameReset}
	require.NoError(t, aliceReq.EncodeData(protocol.PhaseRequestData{
		Alias: "alice", UUID: aliceUUID,
	}))
	aliceResp := s.HandleRequest(aliceReq)
	require.Nil(t, aliceResp.Error)

	bobReq := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextMovementPhase}
	require.NoError(t, bobReq.EncodeData(protocol.PhaseRequestData{
		Kind: protocol.KindMovementPhaseRequest, Alias: "bob", UUID: bobUUID,
	}))
	resp := s.HandleRequest(bobReq)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.MismatchedPlayerContexts, resp.Error.Code)
	assert.Nil(t, s.queue[koth.Beta])
	assert.NotNil(t, s.queue[koth.Alpha])
}
