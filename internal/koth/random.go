package koth

import "math/rand"

// RandomActionFor samples one legal action uniformly at random for a
// token. Grounded on the original's core_random_game.py /
// server_2player_random_game.py examples; useful for engine fuzz
// tests and as a drop-in opponent when no external policy is wired.
func RandomActionFor(legal []Action, rng *rand.Rand) Action {
	if len(legal) == 0 {
		return NoOp()
	}
	return legal[rng.Intn(len(legal))]
}
