package session

import (
	"koth/internal/koth"
	"koth/internal/protocol"
)

func gameStateWire(e *koth.Engine) (*protocol.GameStateWire, error) {
	legal, err := e.LegalActionsAll()
	if err != nil {
		return nil, err
	}

	w := &protocol.GameStateWire{
		TurnNumber:      e.TurnCount,
		TurnPhase:       e.Phase.String(),
		GameDone:        e.Done,
		GoalSectorAlpha: int(e.Hills[koth.Alpha]),
		GoalSectorBeta:  int(e.Hills[koth.Beta]),
		ScoreAlpha:      e.Score[koth.Alpha],
		ScoreBeta:       e.Score[koth.Beta],
	}
	for _, t := range e.Tokens {
		state := e.States[t]
		var legalWire []string
		for _, a := range legal[t] {
			legalWire = append(legalWire, a.Kind.String())
		}
		w.TokenStates = append(w.TokenStates, protocol.TokenStateWire{
			PieceID:      t.String(),
			Fuel:         state.Fuel,
			Role:         t.Role.String(),
			Position:     int(state.Position),
			Ammo:         state.Ammo,
			LegalActions: legalWire,
		})
	}
	return w, nil
}

func outcomeRecords(outcomes []koth.Outcome) []protocol.OutcomeRecord {
	var out []protocol.OutcomeRecord
	for _, o := range outcomes {
		rec := protocol.OutcomeRecord{
			ActionType:  o.Kind.String(),
			TargetID:    o.Target.String(),
			Probability: o.Probability,
			Success:     o.Success,
		}
		if o.Attacker != nil {
			rec.AttackerID = o.Attacker.String()
		}
		if o.Guardian != nil {
			rec.GuardianID = o.Guardian.String()
		}
		out = append(out, rec)
	}
	return out
}

// actionsFromSelections parses a client's action selections into the
// engine's action map, validating that every selection names a token
// owned by player (PlayerTokenMismatch).
func actionsFromSelections(player koth.PlayerID, selections []protocol.ActionSelection) (map[koth.TokenID]koth.Action, *protocol.Error) {
	out := make(map[koth.TokenID]koth.Action, len(selections))
	for _, sel := range selections {
		tok, err := koth.ParseTokenID(sel.PieceID)
		if err != nil {
			return nil, protocol.NewError(protocol.PlayerTokenMismatch, "malformed piece id %q", sel.PieceID)
		}
		if tok.Player != player {
			return nil, protocol.NewError(protocol.PlayerTokenMismatch, "token %q is not owned by the declaring player", sel.PieceID)
		}
		kind, err := koth.ParseActionKind(sel.ActionType)
		if err != nil {
			return nil, protocol.NewError(protocol.PlayerTokenMismatch, "%s", err)
		}
		a := koth.Action{Kind: kind}
		if sel.TargetID != "" {
			target, err := koth.ParseTokenID(sel.TargetID)
			if err != nil {
				return nil, protocol.NewError(protocol.PlayerTokenMismatch, "malformed target id %q", sel.TargetID)
			}
			a.Target = target
		}
		out[tok] = a
	}
	return out, nil
}

// combineActions fills in NoOp for every token neither player
// declared an action for, per the SHOULD at §9 Open Questions: this
// module chooses to coerce silently rather than reject.
func combineActions(e *koth.Engine, perPlayer [2]map[koth.TokenID]koth.Action) map[koth.TokenID]koth.Action {
	combined := make(map[koth.TokenID]koth.Action, len(e.Tokens))
	for _, t := range e.Tokens {
		if a, ok := perPlayer[t.Player][t]; ok {
			combined[t] = a
		} else {
			combined[t] = koth.NoOp()
		}
	}
	return combined
}
