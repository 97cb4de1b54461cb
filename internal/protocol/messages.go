package protocol

// DataKind enumerates data.kind values, per §6.
type DataKind string

const (
	KindPlayerRegistrationRequest  DataKind = "playerRegistrationRequest"
	KindPlayerRegistrationResponse DataKind = "playerRegistrationResponse"
	KindGameResetResponse          DataKind = "gameResetResponse"
	KindMovementPhaseRequest       DataKind = "movementPhaseRequest"
	KindMovementPhaseResponse      DataKind = "movementPhaseResponse"
	KindEngagementPhaseRequest     DataKind = "engagementPhaseRequest"
	KindEngagementPhaseResponse    DataKind = "engagementPhaseResponse"
	KindDriftPhaseResponse         DataKind = "driftPhaseResponse"
	KindWaitingResponse            DataKind = "waitingResponse"
	KindAdvancingResponse          DataKind = "advancingResponse"
)

// ActionSelection is one token's declared action in a phase request.
// TargetID is empty for NoOp and for movement actions.
type ActionSelection struct {
	PieceID    string `json:"pieceID"`
	ActionType string `json:"actionType"`
	TargetID   string `json:"targetID,omitempty"`
}

// OutcomeRecord is one resolved engagement event, per §6. AttackerID
// and GuardianID are empty strings when that role is absent (e.g. a
// trivial guard has no attacker; a shoot/collide has no guardian).
type OutcomeRecord struct {
	ActionType  string  `json:"actionType"`
	AttackerID  string  `json:"attackerID"`
	TargetID    string  `json:"targetID"`
	GuardianID  string  `json:"guardianID"`
	Probability float64 `json:"probability"`
	Success     bool    `json:"success"`
}

// TokenStateWire is the wire form of one token's state, per §6.
type TokenStateWire struct {
	PieceID      string   `json:"pieceID"`
	Fuel         float64  `json:"fuel"`
	Role         string   `json:"role"`
	Position     int      `json:"position"`
	Ammo         int      `json:"ammo"`
	LegalActions []string `json:"legalActions"`
}

// GameStateWire is the wire form of a full game state snapshot,
// embedded under data.gameState per §6.
type GameStateWire struct {
	TurnNumber      int              `json:"turnNumber"`
	TurnPhase       string           `json:"turnPhase"`
	GameDone        bool             `json:"gameDone"`
	GoalSectorAlpha int              `json:"goalSectorAlpha"`
	GoalSectorBeta  int              `json:"goalSectorBeta"`
	ScoreAlpha      float64          `json:"scoreAlpha"`
	ScoreBeta       float64          `json:"scoreBeta"`
	TokenStates     []TokenStateWire `json:"tokenStates"`
}

// RegistryEntry is one slot's (slot, alias) pairing in the published
// player registry.
type RegistryEntry struct {
	Slot  string `json:"slot"`
	Alias string `json:"alias"`
}

// PlayerRegistrationRequestData is the data payload of a
// playerRegistration request.
type PlayerRegistrationRequestData struct {
	Kind  DataKind `json:"kind"`
	Alias string   `json:"alias"`
}

// PlayerRegistrationResponseData is the data payload of a successful
// registration reply.
type PlayerRegistrationResponseData struct {
	Kind  DataKind `json:"kind"`
	Slot  string   `json:"slot"`
	Alias string   `json:"alias"`
	UUID  string   `json:"uuid"`
}

// PhaseRequestData is the data payload of a movementPhase/
// engagementPhase/driftPhase request.
type PhaseRequestData struct {
	Kind             DataKind          `json:"kind"`
	Alias            string            `json:"alias"`
	UUID             string            `json:"uuid"`
	ActionSelections []ActionSelection `json:"actionSelections"`
}

// WaitingResponseData is returned to the first arriver of a phase
// barrier.
type WaitingResponseData struct {
	Kind DataKind `json:"kind"`
}

// AdvancingResponseData is returned to the second arriver once the
// engine has advanced.
type AdvancingResponseData struct {
	Kind               DataKind        `json:"kind"`
	GameState          *GameStateWire  `json:"gameState"`
	ResolutionSequence []OutcomeRecord `json:"resolutionSequence,omitempty"`
}

// GameResetResponseData is published on reset, per §4.G
// point 4 / S6.
type GameResetResponseData struct {
	Kind           DataKind        `json:"kind"`
	GameState      *GameStateWire  `json:"gameState"`
	PlayerRegistry []RegistryEntry `json:"playerRegistry"`
}

// EchoProbeData are the extra fields this module's echo reply stamps
// onto the client's echoed data, per §D.6.
type EchoProbeData struct {
	TurnNumber int    `json:"turnNumber"`
	TurnPhase  string `json:"turnPhase"`
}
