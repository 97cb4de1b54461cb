package koth

import (
	"fmt"
	"math/rand"

	"koth/internal/orbit"
)

// Rewards is the per-player reward pair returned by each engine step.
// It is zero on every non-terminating step.
type Rewards struct {
	Alpha float64
	Beta  float64
}

// IllegalActionError reports which player(s) submitted an action
// outside the current legal-action set, terminating the game.
type IllegalActionError struct {
	Offenders []PlayerID
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("koth: illegal action by %v", e.Offenders)
}

// Engine owns the mutable game state for one session: the grid,
// token roster and state, current phase, score, and turn count. It
// is the sole mutator of token state (§3 ownership invariant).
type Engine struct {
	Config GameConfig
	Grid   *orbit.Grid

	Tokens    []TokenID
	States    map[TokenID]*orbit.TokenState
	Adjacency *AdjacencyGraph

	Phase     Phase
	TurnCount int
	Done      bool

	Hills     [2]orbit.SectorID
	Score     [2]float64
	FuelScore [2]float64

	RNG *rand.Rand
}

// NewEngine constructs a fresh engine over cfg and performs an initial
// Reset.
func NewEngine(cfg GameConfig, rng *rand.Rand) (*Engine, error) {
	grid, err := orbit.NewGrid(cfg.MinRing, cfg.MaxRing)
	if err != nil {
		return nil, err
	}
	e := &Engine{Config: cfg, Grid: grid, RNG: rng}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset rebuilds the token roster, positions, score, and phase to the
// initial game state, per §4.B.
func (e *Engine) Reset() error {
	tokens, states, hills, err := BuildBoard(e.Grid, e.Config)
	if err != nil {
		return err
	}
	e.Tokens = tokens
	e.States = states
	e.Hills = hills
	e.Phase = MovementPhase
	e.TurnCount = 0
	e.Done = false
	e.Score = [2]float64{}
	e.FuelScore = [2]float64{}
	return e.rebuildAdjacency()
}

func (e *Engine) rebuildAdjacency() error {
	adj, err := BuildAdjacency(e.Grid, e.Tokens, e.States)
	if err != nil {
		return err
	}
	e.Adjacency = adj
	return nil
}

// LegalActionsFor returns the legal-action set of one token in the
// current phase.
func (e *Engine) LegalActionsFor(t TokenID) ([]Action, error) {
	return LegalActions(e.Phase, t, e.States, e.Grid, e.Adjacency)
}

// LegalActionsAll returns the legal-action set of every token in the
// current phase.
func (e *Engine) LegalActionsAll() (map[TokenID][]Action, error) {
	out := make(map[TokenID][]Action, len(e.Tokens))
	for _, t := range e.Tokens {
		acts, err := e.LegalActionsFor(t)
		if err != nil {
			return nil, err
		}
		out[t] = acts
	}
	return out, nil
}

func containsAction(legal []Action, a Action) bool {
	for _, l := range legal {
		if l.Kind == a.Kind && (!a.Kind.isEngagement() || l.Target == a.Target) {
			return true
		}
	}
	return false
}

// sectorRelation classifies target relative to actor: in-sector if
// colocated, adjacent otherwise (legal-action generation guarantees
// no other relation reaches an engagement declaration).
func (e *Engine) sectorRelation(actor, target TokenID) SectorRelation {
	if e.States[actor].Position == e.States[target].Position {
		return InSector
	}
	return AdjSector
}

// EngagementProbability looks up the base success probability of an
// engagement kind between actor and target, per §4.F. NoOp is always 1.
func (e *Engine) EngagementProbability(actor, target TokenID, kind ActionKind) float64 {
	if kind == ActionNoOp {
		return 1.0
	}
	pc := e.Config.playerConfig(actor.Player)
	rel := e.sectorRelation(actor, target)
	return engagementProbability(pc.EngageProbs, kind, rel)
}

func applyMovement(grid *orbit.Grid, pos orbit.SectorID, kind ActionKind) (orbit.SectorID, error) {
	switch kind {
	case ActionNoOp:
		return pos, nil
	case ActionProgradeKind:
		return grid.Prograde(pos)
	case ActionRetrogradeKind:
		return grid.Retrograde(pos)
	case ActionRadialInKind:
		np, _, err := grid.RadialIn(pos)
		return np, err
	case ActionRadialOutKind:
		np, _, err := grid.RadialOut(pos)
		return np, err
	default:
		return pos, fmt.Errorf("koth: %s is not a movement action", kind)
	}
}

// StepMovement validates and applies a full MOVEMENT-phase action map
// (one entry per token of both players), per §4.F.
func (e *Engine) StepMovement(actions map[TokenID]Action) (Rewards, error) {
	if e.Done {
		return Rewards{}, fmt.Errorf("koth: game already done")
	}
	if e.Phase != MovementPhase {
		return Rewards{}, fmt.Errorf("koth: not in movement phase")
	}

	if offenders := e.validateActions(actions); len(offenders) > 0 {
		return e.terminateIllegal(offenders), &IllegalActionError{Offenders: offenders}
	}

	for _, t := range e.Tokens {
		a := actions[t]
		state := e.States[t]
		pc := e.Config.playerConfig(t.Player)
		cost := movementFuelCost(pc.FuelUsage, a.Kind)
		kind := a.Kind
		if state.Fuel < cost {
			kind = ActionNoOp
		} else {
			state.Fuel -= cost
			state.UpdateLiveness(e.Config.MinFuel)
		}
		newPos, err := applyMovement(e.Grid, state.Position, kind)
		if err != nil {
			return Rewards{}, err
		}
		state.Position = newPos
	}

	if err := e.rebuildAdjacency(); err != nil {
		return Rewards{}, err
	}
	e.Phase = EngagementPhase
	return Rewards{}, nil
}

// StepEngagement validates and applies a full ENGAGEMENT-phase action
// map, resolves the engagement graph, and enacts the outcomes.
func (e *Engine) StepEngagement(actions map[TokenID]Action) (Rewards, []Outcome, error) {
	if e.Done {
		return Rewards{}, nil, fmt.Errorf("koth: game already done")
	}
	if e.Phase != EngagementPhase {
		return Rewards{}, nil, fmt.Errorf("koth: not in engagement phase")
	}

	if offenders := e.validateActions(actions); len(offenders) > 0 {
		return e.terminateIllegal(offenders), nil, &IllegalActionError{Offenders: offenders}
	}

	var declarations []Declaration
	for _, t := range e.Tokens {
		a := actions[t]
		state := e.States[t]
		if a.Kind == ActionNoOp {
			continue
		}
		pc := e.Config.playerConfig(t.Player)
		rel := e.sectorRelation(t, a.Target)
		cost := engagementFuelCost(pc.FuelUsage, a.Kind, rel)
		if state.Fuel < cost {
			continue
		}
		state.Fuel -= cost
		state.UpdateLiveness(e.Config.MinFuel)
		prob := engagementProbability(pc.EngageProbs, a.Kind, rel)
		declarations = append(declarations, Declaration{Actor: t, Kind: a.Kind, Target: a.Target, Prob: prob})
	}

	outcomes := Resolve(declarations, e.States, e.Config.MinFuel, e.RNG)
	Enact(outcomes, e.States, e.Config.MinFuel)

	if err := e.rebuildAdjacency(); err != nil {
		return Rewards{}, nil, err
	}
	e.Phase = Drift
	return Rewards{}, outcomes, nil
}

// StepDrift advances the drift phase: scoring, fuel decay, prograde
// drift of every token and both hills, and terminal-condition checks,
// per §4.F.
func (e *Engine) StepDrift() (Rewards, error) {
	if e.Done {
		return Rewards{}, fmt.Errorf("koth: game already done")
	}
	if e.Phase != Drift {
		return Rewards{}, fmt.Errorf("koth: not in drift phase")
	}

	for p := Alpha; p <= Beta; p++ {
		pc := e.Config.playerConfig(p)
		fuelPoints := e.fuelPoints(p, pc)
		goalPoints := e.goalPoints(p, pc)
		cumulativeGoal := e.Score[p] - e.FuelScore[p]
		e.Score[p] = cumulativeGoal + goalPoints + fuelPoints
		e.FuelScore[p] = fuelPoints
	}

	for _, t := range e.Tokens {
		state := e.States[t]
		pc := e.Config.playerConfig(t.Player)
		state.Fuel -= pc.FuelUsage.Drift
		if state.Fuel < e.Config.MinFuel {
			state.Fuel = e.Config.MinFuel
		}
		state.UpdateLiveness(e.Config.MinFuel)
		newPos, err := e.Grid.Prograde(state.Position)
		if err != nil {
			return Rewards{}, err
		}
		state.Position = newPos
	}
	for i := range e.Hills {
		newHill, err := e.Grid.Prograde(e.Hills[i])
		if err != nil {
			return Rewards{}, err
		}
		e.Hills[i] = newHill
	}

	e.TurnCount++

	if err := e.rebuildAdjacency(); err != nil {
		return Rewards{}, err
	}

	if e.isTerminal() {
		e.Done = true
		diff := e.Score[Alpha] - e.Score[Beta]
		return Rewards{Alpha: diff, Beta: -diff}, nil
	}

	e.Phase = MovementPhase
	return Rewards{}, nil
}

func (e *Engine) fuelPoints(p PlayerID, pc PlayerConfig) float64 {
	total := 0.0
	for _, t := range e.Tokens {
		if t.Player != p {
			continue
		}
		state := e.States[t]
		if !state.Active || state.Ghost {
			continue
		}
		total += state.Fuel * pc.fuelPointsFactor(t.Role)
	}
	return total
}

func (e *Engine) goalPoints(p PlayerID, pc PlayerConfig) float64 {
	seeker := TokenID{Player: p, Role: Seeker, Index: 0}
	state := e.States[seeker]
	if !state.Active || state.Ghost {
		return 0
	}
	hill := e.Hills[p]
	if state.Position == hill {
		return pc.InGoalPoints
	}
	adjacent, _ := e.Grid.AllAdjacentSectors(hill)
	for _, s := range adjacent {
		if state.Position == s {
			return pc.AdjGoalPoints
		}
	}
	return 0
}

func (e *Engine) isTerminal() bool {
	for p := Alpha; p <= Beta; p++ {
		seeker := TokenID{Player: p, Role: Seeker, Index: 0}
		if !e.States[seeker].Active {
			return true
		}
		if e.Score[p] >= e.Config.playerConfig(p).WinScore {
			return true
		}
	}
	return e.TurnCount >= e.Config.MaxTurns
}

func (e *Engine) validateActions(actions map[TokenID]Action) []PlayerID {
	offenderSet := map[PlayerID]bool{}
	for _, t := range e.Tokens {
		a, ok := actions[t]
		if !ok {
			continue
		}
		legal, err := e.LegalActionsFor(t)
		if err != nil || !containsAction(legal, a) {
			offenderSet[t.Player] = true
		}
	}
	var offenders []PlayerID
	for p := Alpha; p <= Beta; p++ {
		if offenderSet[p] {
			offenders = append(offenders, p)
		}
	}
	return offenders
}

func (e *Engine) terminateIllegal(offenders []PlayerID) Rewards {
	for _, p := range offenders {
		e.Score[p] = e.Config.IllegalActionScore
	}
	e.Done = true
	diff := e.Score[Alpha] - e.Score[Beta]
	return Rewards{Alpha: diff, Beta: -diff}
}
