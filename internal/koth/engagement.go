package koth

import (
	"math/rand"

	"koth/internal/orbit"
)

// Declaration is one token's ENGAGEMENT-phase action with its
// probability already attached (looked up per §4.F at declaration
// time, not baked into the legal-action set).
type Declaration struct {
	Actor  TokenID
	Kind   ActionKind
	Target TokenID
	Prob   float64
}

// Outcome is one resolved engagement event, per §4.E. Attacker and
// Guardian are nil when the record has no such role (a trivial guard
// has no attacker; a shoot or collide has no guardian).
type Outcome struct {
	Kind        ActionKind
	Attacker    *TokenID
	Target      TokenID
	Guardian    *TokenID
	Probability float64
	Success     bool
}

type engEdge struct {
	src, dst TokenID
	kind     ActionKind
	prob     float64
	removed  bool
}

// Resolve runs the three-phase guard/shoot/collide resolution
// algorithm of §4.E over the supplied declarations and returns the
// ordered outcome sequence. states is read only for pre-resolution
// fuel filtering; Enact applies the outcomes afterward.
func Resolve(declarations []Declaration, states map[TokenID]*orbit.TokenState, minFuel float64, rng *rand.Rand) []Outcome {
	var guards, shoots, collides []*engEdge

	alive := func(t TokenID) bool {
		return states[t].Fuel > minFuel
	}

	for _, d := range declarations {
		if d.Kind == ActionNoOp {
			continue
		}
		if !alive(d.Actor) || !alive(d.Target) {
			continue
		}
		e := &engEdge{src: d.Actor, dst: d.Target, kind: d.Kind, prob: d.Prob}
		switch d.Kind {
		case ActionGuardKind:
			guards = append(guards, e)
		case ActionShootKind:
			shoots = append(shoots, e)
		case ActionCollideKind:
			collides = append(collides, e)
		}
	}

	var outcomes []Outcome

	shuffle(rng, guards)
	for _, g := range guards {
		guardian, guarded, p := g.src, g.dst, g.prob

		var incident []*engEdge
		for _, e := range shoots {
			if !e.removed && e.dst == guarded {
				incident = append(incident, e)
			}
		}
		for _, e := range collides {
			if !e.removed && e.dst == guarded {
				incident = append(incident, e)
			}
		}

		if len(incident) == 0 {
			outcomes = append(outcomes, Outcome{Kind: ActionGuardKind, Target: guarded, Guardian: &guardian, Probability: p, Success: false})
			continue
		}

		shuffle(rng, incident)
		for k, a := range incident {
			attacker := a.src
			prob := p * pow2Decay(k)
			success := rng.Float64() < prob
			outcomes = append(outcomes, Outcome{
				Kind:        ActionGuardKind,
				Attacker:    &attacker,
				Target:      guarded,
				Guardian:    &guardian,
				Probability: prob,
				Success:     success,
			})
			if success {
				a.removed = true
				rerouted := &engEdge{src: attacker, dst: guardian, kind: a.kind, prob: a.prob}
				if a.kind == ActionShootKind {
					shoots = append(shoots, rerouted)
				} else {
					collides = append(collides, rerouted)
				}
			}
		}
	}

	var activeShoots []*engEdge
	for _, e := range shoots {
		if !e.removed {
			activeShoots = append(activeShoots, e)
		}
	}
	shuffle(rng, activeShoots)

	killed := make(map[TokenID]bool)
	for _, e := range activeShoots {
		success := rng.Float64() < e.prob
		attacker, target := e.src, e.dst
		outcomes = append(outcomes, Outcome{Kind: ActionShootKind, Attacker: &attacker, Target: target, Probability: e.prob, Success: success})
		if success {
			killed[target] = true
		}
	}

	var activeCollides []*engEdge
	for _, e := range collides {
		if !e.removed && !killed[e.src] && !killed[e.dst] {
			activeCollides = append(activeCollides, e)
		}
	}

	for len(activeCollides) > 0 {
		i := rng.Intn(len(activeCollides))
		e := activeCollides[i]
		activeCollides = append(activeCollides[:i], activeCollides[i+1:]...)

		success := rng.Float64() < e.prob
		attacker, target := e.src, e.dst
		outcomes = append(outcomes, Outcome{Kind: ActionCollideKind, Attacker: &attacker, Target: target, Probability: e.prob, Success: success})
		if success {
			var remaining []*engEdge
			for _, other := range activeCollides {
				if other.src != attacker && other.dst != attacker && other.src != target && other.dst != target {
					remaining = append(remaining, other)
				}
			}
			activeCollides = remaining
		}
	}

	return outcomes
}

// Enact applies a resolved outcome sequence to token state, per §4.E.
func Enact(outcomes []Outcome, states map[TokenID]*orbit.TokenState, minFuel float64) {
	for _, o := range outcomes {
		switch o.Kind {
		case ActionShootKind:
			attacker := states[*o.Attacker]
			attacker.Ammo--
			if o.Success {
				target := states[o.Target]
				target.Fuel = minFuel
				target.UpdateLiveness(minFuel)
			}
		case ActionCollideKind:
			attacker := states[*o.Attacker]
			target := states[o.Target]
			attacker.Position = target.Position
			if o.Success {
				attacker.Fuel = minFuel
				target.Fuel = minFuel
				attacker.UpdateLiveness(minFuel)
				target.UpdateLiveness(minFuel)
			}
		case ActionGuardKind:
			if o.Success {
				states[*o.Guardian].Position = states[o.Target].Position
			}
		}
	}
}

func pow2Decay(k int) float64 {
	v := 1.0
	for i := 0; i < k; i++ {
		v *= 0.5
	}
	return v
}

func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
