// Package protocol defines the JSON wire envelope, message schema,
// and error taxonomy of the two-player session protocol (§4.H, §6,
// §7). It has no dependency on the engine or the transport: encoding
// is kept strictly separate from game rules and from sockets.
package protocol

import "encoding/json"

// APIVersion is the version tag bound to this server build. A
// non-echo request whose apiVersion does not match is rejected with
// VersionMismatch before any further processing; echo skips the check.
const APIVersion = "1.0.0"

// Context enumerates the request/response kinds carried by the
// envelope's "context" field.
type Context string

const (
	ContextEcho                Context = "echo"
	ContextPlayerRegistration  Context = "playerRegistration"
	ContextGameReset           Context = "gameReset"
	ContextMovementPhase       Context = "movementPhase"
	ContextEngagementPhase     Context = "engagementPhase"
	ContextDriftPhase          Context = "driftPhase"
)

// IsPhaseContext reports whether c names one of the three
// barrier-synchronized phase advancement contexts.
func (c Context) IsPhaseContext() bool {
	return c == ContextMovementPhase || c == ContextEngagementPhase || c == ContextDriftPhase
}

func (c Context) String() string {
	return string(c)
}

func (c Context) valid() bool {
	switch c {
	case ContextEcho, ContextPlayerRegistration, ContextGameReset,
		ContextMovementPhase, ContextEngagementPhase, ContextDriftPhase:
		return true
	default:
		return false
	}
}

// Envelope is the required top-level shape of every message, per §6.
type Envelope struct {
	APIVersion string          `json:"apiVersion"`
	Context    Context         `json:"context"`
	GameID     string          `json:"gameID"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      *Error          `json:"error,omitempty"`
}

// EncodeData marshals v into the envelope's data field.
func (e *Envelope) EncodeData(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.Data = raw
	return nil
}

// DecodeData unmarshals the envelope's data field into v.
func (e *Envelope) DecodeData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// DataKindOnly peeks at data.kind without decoding the rest of the
// payload, used to validate DataKindMismatch before full decode.
func (e *Envelope) DataKindOnly() (string, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(e.Data, &probe); err != nil {
		return "", err
	}
	return probe.Kind, nil
}
