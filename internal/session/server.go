package session

import (
	"bytes"
	"encoding/json"
	"log"
	"math/rand"
	"sync"

	"koth/internal/koth"
	"koth/internal/protocol"
	"koth/internal/replay"
	"koth/internal/rng"
)

var acceptedRequestKind = map[protocol.Context]protocol.DataKind{
	protocol.ContextMovementPhase:   protocol.KindMovementPhaseRequest,
	protocol.ContextEngagementPhase: protocol.KindEngagementPhaseRequest,
}

type queuedPhase struct {
	context protocol.Context
	actions map[koth.TokenID]koth.Action
}

// Server implements the two-port session protocol of §4.G over one
// engine instance. HandleRequest is safe to call from one goroutine
// per connection; it serializes itself with an internal mutex so the
// engine is never mutated concurrently (§5 concurrency model).
type Server struct {
	mu sync.Mutex

	Config  koth.GameConfig
	Engine  *koth.Engine
	Rng     *rand.Rand
	GameID  string
	Players *Registry
	Replay  *replay.Log

	queue [2]*queuedPhase

	// Publish broadcasts env on the publish port. Nil is valid (no
	// subscribers yet); Server never blocks waiting for one.
	Publish func(env protocol.Envelope)

	InfoLog  *log.Logger
	ErrorLog *log.Logger
}

// NewServer constructs a Server with a fresh engine and registry,
// seeded from seed, or, when seed is zero, from a fixed seed derived
// from a constant genesis string.
func NewServer(cfg koth.GameConfig, seed int64, infoLog, errorLog *log.Logger) (*Server, error) {
	if seed == 0 {
		seed = rng.SeedFromMaterial([]byte("koth-session-genesis"))
	}
	r := rng.New(seed)
	engine, err := koth.NewEngine(cfg, r)
	if err != nil {
		return nil, err
	}
	replayLog, err := replay.Open()
	if err != nil {
		return nil, err
	}
	return &Server{
		Config:   cfg,
		Engine:   engine,
		Rng:      r,
		GameID:   rng.GameID(seed),
		Players:  NewRegistry(),
		Replay:   replayLog,
		InfoLog:  infoLog,
		ErrorLog: errorLog,
	}, nil
}

func (s *Server) errorEnvelope(req protocol.Envelope, err *protocol.Error) protocol.Envelope {
	return protocol.Envelope{
		APIVersion: protocol.APIVersion,
		Context:    req.Context,
		GameID:     s.GameID,
		Error:      err,
	}
}

// HandleRequest decodes, validates, and dispatches one request
// envelope, returning the reply envelope to send back to the caller.
func (s *Server) HandleRequest(req protocol.Envelope) protocol.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Context == protocol.ContextEcho {
		return s.handleEcho(req)
	}

	if req.APIVersion != protocol.APIVersion {
		return s.errorEnvelope(req, protocol.NewError(protocol.VersionMismatch,
			"apiVersion %q does not match server version %q", req.APIVersion, protocol.APIVersion))
	}

	switch req.Context {
	case protocol.ContextPlayerRegistration:
		return s.handleRegistration(req)
	case protocol.ContextGameReset, protocol.ContextMovementPhase, protocol.ContextEngagementPhase, protocol.ContextDriftPhase:
		return s.handlePhaseRequest(req)
	default:
		return s.errorEnvelope(req, protocol.NewError(protocol.UnknownContext, "unknown context %q", req.Context))
	}
}

// handleEcho answers verbatim with no version check (a bare
// connectivity probe), stamping the current turn number/phase
// additively per §D.6.
func (s *Server) handleEcho(req protocol.Envelope) protocol.Envelope {
	resp := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextEcho, GameID: s.GameID, Data: req.Data}

	var payload map[string]interface{}
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			payload = map[string]interface{}{}
		}
	} else {
		payload = map[string]interface{}{}
	}
	payload["turnNumber"] = s.Engine.TurnCount
	payload["turnPhase"] = s.Engine.Phase.String()

	if raw, err := json.Marshal(payload); err == nil {
		resp.Data = raw
	}
	return resp
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) handleRegistration(req protocol.Envelope) protocol.Envelope {
	var body struct {
		Kind  protocol.DataKind `json:"kind"`
		Alias string            `json:"alias"`
	}
	if err := decodeStrict(req.Data, &body); err != nil {
		return s.errorEnvelope(req, protocol.NewError(protocol.UnexpectedDataField, "malformed registration payload: %s", err))
	}
	if body.Kind != "" && body.Kind != protocol.KindPlayerRegistrationRequest {
		return s.errorEnvelope(req, protocol.NewError(protocol.DataKindMismatch, "expected %s, got %s", protocol.KindPlayerRegistrationRequest, body.Kind))
	}

	reg, protoErr := s.Players.Register(body.Alias)
	if protoErr != nil {
		return s.errorEnvelope(req, protoErr)
	}

	s.InfoLog.Printf("registered %s as %s", body.Alias, reg.Slot)

	resp := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextPlayerRegistration, GameID: s.GameID}
	resp.EncodeData(protocol.PlayerRegistrationResponseData{
		Kind:  protocol.KindPlayerRegistrationResponse,
		Slot:  reg.Slot.String(),
		Alias: reg.Alias,
		UUID:  reg.UUID,
	})

	if s.Players.Full() {
		s.resetAndPublish()
	}

	return resp
}

// resetAndPublish performs a full engine reset and broadcasts the new
// initial state, per §4.G point about the second registration.
func (s *Server) resetAndPublish() {
	seed := rng.SeedFromMaterial([]byte(s.Players.Entries()[0].Alias + s.Players.Entries()[1].Alias))
	s.Rng = rng.New(seed)
	s.Engine.RNG = s.Rng
	s.GameID = rng.GameID(seed)
	if err := s.Engine.Reset(); err != nil {
		s.ErrorLog.Printf("engine reset failed: %s", err)
		return
	}

	state, err := gameStateWire(s.Engine)
	if err != nil {
		s.ErrorLog.Printf("failed to build reset game state: %s", err)
		return
	}

	env := protocol.Envelope{APIVersion: protocol.APIVersion, Context: protocol.ContextGameReset, GameID: s.GameID}
	env.EncodeData(protocol.GameResetResponseData{
		Kind:           protocol.KindGameResetResponse,
		GameState:      state,
		PlayerRegistry: s.Players.Entries(),
	})
	s.InfoLog.Printf("both players registered, game %s reset", s.GameID)
	if s.Publish != nil {
		s.Publish(env)
	}
}

func (s *Server) handlePhaseRequest(req protocol.Envelope) protocol.Envelope {
	var body protocol.PhaseRequestData
	if expectedKind, ok := acceptedRequestKind[req.Context]; ok {
		if err := decodeStrict(req.Data, &body); err != nil {
			return s.errorEnvelope(req, protocol.NewError(protocol.DataKindMismatch, "malformed %s payload: %s", req.Context, err))
		}
		if body.Kind != expectedKind {
			return s.errorEnvelope(req, protocol.NewError(protocol.DataKindMismatch, "expected data.kind %s, got %s", expectedKind, body.Kind))
		}
	} else if err := json.Unmarshal(req.Data, &body); err != nil {
		return s.errorEnvelope(req, protocol.NewError(protocol.DataKindMismatch, "malformed %s payload: %s", req.Context, err))
	}

	reg, ok := s.Players.Lookup(body.Alias, body.UUID)
	if !ok {
		return s.errorEnvelope(req, protocol.NewError(protocol.UnregisteredIdentity, "alias/uuid pair not registered"))
	}

	if req.Context != protocol.ContextGameReset {
		expected := protocol.Context(s.Engine.Phase.String())
		if req.Context != expected {
			return s.errorEnvelope(req, protocol.NewError(protocol.ContextPhaseMismatch,
				"expected context %s, got %s", expected, req.Context))
		}
	}

	actions, protoErr := actionsFromSelections(reg.Slot, body.ActionSelections)
	if protoErr != nil {
		return s.errorEnvelope(req, protoErr)
	}

	s.queue[reg.Slot] = &queuedPhase{context: req.Context, actions: actions}

	other := reg.Slot.Opponent()
	if s.queue[other] == nil {
		resp := protocol.Envelope{APIVersion: protocol.APIVersion, Context: req.Context, GameID: s.GameID}
		resp.EncodeData(protocol.WaitingResponseData{Kind: protocol.KindWaitingResponse})
		return resp
	}

	if s.queue[other].context != req.Context {
		s.queue[reg.Slot] = nil
		return s.errorEnvelope(req, protocol.NewError(protocol.MismatchedPlayerContexts,
			"queued context %s does not match arriving context %s", s.queue[other].context, req.Context))
	}

	return s.advance(req, reg.Slot)
}

// advance runs the barrier-completed engine step, replies to the
// second arriver, publishes the new state, and clears the queue.
func (s *Server) advance(req protocol.Envelope, arriver koth.PlayerID) protocol.Envelope {
	var perPlayer [2]map[koth.TokenID]koth.Action
	perPlayer[koth.Alpha] = s.queue[koth.Alpha].actions
	perPlayer[koth.Beta] = s.queue[koth.Beta].actions
	context := req.Context

	var outcomes []koth.Outcome
	var stepErr error

	switch context {
	case protocol.ContextMovementPhase:
		combined := combineActions(s.Engine, perPlayer)
		_, stepErr = s.Engine.StepMovement(combined)
	case protocol.ContextEngagementPhase:
		combined := combineActions(s.Engine, perPlayer)
		_, outcomes, stepErr = s.Engine.StepEngagement(combined)
	case protocol.ContextDriftPhase:
		_, stepErr = s.Engine.StepDrift()
	case protocol.ContextGameReset:
		stepErr = s.Engine.Reset()
	}

	if stepErr != nil {
		if _, illegal := stepErr.(*koth.IllegalActionError); !illegal {
			s.ErrorLog.Printf("engine step failed: %s", stepErr)
		}
	}

	s.queue = [2]*queuedPhase{}

	state, err := gameStateWire(s.Engine)
	if err != nil {
		s.ErrorLog.Printf("failed to build game state: %s", err)
	}

	records := outcomeRecords(outcomes)
	if s.Replay != nil {
		s.Replay.Append(s.Engine.TurnCount, string(context), nil, records, s.GameID)
	}

	resp := protocol.Envelope{APIVersion: protocol.APIVersion, Context: context, GameID: s.GameID}
	resp.EncodeData(protocol.AdvancingResponseData{
		Kind:               protocol.KindAdvancingResponse,
		GameState:          state,
		ResolutionSequence: records,
	})

	broadcast := protocol.Envelope{APIVersion: protocol.APIVersion, Context: context, GameID: s.GameID}
	broadcast.EncodeData(protocol.AdvancingResponseData{
		Kind:               protocol.KindAdvancingResponse,
		GameState:          state,
		ResolutionSequence: records,
	})
	if s.Publish != nil {
		s.Publish(broadcast)
	}

	return resp
}
