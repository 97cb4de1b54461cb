package orbit

// TokenState is the mutable per-turn state of one satellite/piece:
// its sector, remaining fuel, and remaining ammunition. A "ghost"
// token (used to pad an asymmetric roster so both players expose the
// same vector length) carries zero fuel, zero ammo, sector 0, and is
// permanently inactive.
type TokenState struct {
	Position SectorID
	Fuel     float64
	Ammo     int
	Active   bool
	Ghost    bool
}

// IsGhost reports whether a token is a roster-padding placeholder that
// never participates in movement, engagement, or scoring.
func (t *TokenState) IsGhost() bool {
	return t.Ghost
}

// UpdateLiveness transitions the token to permanently inactive once its
// fuel has dropped to or below minFuel. Call this at every site that
// deducts or sets fuel, mirroring the original's re-derivation of
// liveness from fuel at the point of use (no cached flag there at
// all); Active is one-way here since a dead token never refuels.
func (t *TokenState) UpdateLiveness(minFuel float64) {
	if t.Fuel <= minFuel {
		t.Active = false
	}
}

// AzimuthSlot stacks Count bludger tokens on the same ring as the
// player's hill, RelAzim sectors around from it. Several bludgers can
// share one sector. It is the Go equivalent of the original's
// (relative_azimuth, count) board-pattern tuples.
type AzimuthSlot struct {
	RelAzim int
	Count   int
}

// BoardPattern is an ordered list of azimuth slots describing where a
// player's bludgers start the game, relative to that player's hill.
// The player's seeker always starts on the hill itself.
type BoardPattern []AzimuthSlot
