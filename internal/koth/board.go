package koth

import "koth/internal/orbit"

// BuildBoard constructs the initial token roster and positions for
// both players from cfg, per §4.B. Each player gets one Seeker on its
// hill plus Bludgers placed per its InitPattern. If the two players
// end up with different token counts, the shorter side is padded with
// inactive ghost tokens so both expose an equal-length token vector.
func BuildBoard(grid *orbit.Grid, cfg GameConfig) (tokens []TokenID, states map[TokenID]*orbit.TokenState, hills [2]orbit.SectorID, err error) {
	states = make(map[TokenID]*orbit.TokenState)

	geoSize := grid.NumSectorsInRing(cfg.GeoRing)
	alphaHill, err := grid.RingAzimToSector(cfg.GeoRing, 0)
	if err != nil {
		return nil, nil, hills, err
	}
	betaHill, err := grid.RingAzimToSector(cfg.GeoRing, geoSize/2)
	if err != nil {
		return nil, nil, hills, err
	}
	hills = [2]orbit.SectorID{alphaHill, betaHill}

	var perPlayer [2][]TokenID
	for p := Alpha; p <= Beta; p++ {
		pc := cfg.playerConfig(p)
		hill := hills[p]

		seekerID := TokenID{Player: p, Role: Seeker, Index: 0}
		states[seekerID] = &orbit.TokenState{
			Position: hill,
			Fuel:     pc.initFuel(Seeker),
			Ammo:     pc.initAmmo(Seeker),
			Active:   true,
		}
		toks := []TokenID{seekerID}

		idx := 1
		for _, slot := range pc.InitPattern {
			pos, err := grid.RelativeAzimuth(hill, slot.RelAzim)
			if err != nil {
				return nil, nil, hills, err
			}
			for i := 0; i < slot.Count; i++ {
				id := TokenID{Player: p, Role: Bludger, Index: idx}
				states[id] = &orbit.TokenState{
					Position: pos,
					Fuel:     pc.initFuel(Bludger),
					Ammo:     pc.initAmmo(Bludger),
					Active:   true,
				}
				toks = append(toks, id)
				idx++
			}
		}
		perPlayer[p] = toks
	}

	nAlpha, nBeta := len(perPlayer[Alpha]), len(perPlayer[Beta])
	if nAlpha != nBeta {
		short, diff := Alpha, nBeta-nAlpha
		if diff < 0 {
			short, diff = Beta, -diff
		}
		idx := len(perPlayer[short])
		for i := 0; i < diff; i++ {
			id := TokenID{Player: short, Role: Bludger, Index: idx}
			states[id] = &orbit.TokenState{Position: 0, Fuel: 0, Ammo: 0, Active: false, Ghost: true}
			perPlayer[short] = append(perPlayer[short], id)
			idx++
		}
	}

	tokens = append(tokens, perPlayer[Alpha]...)
	tokens = append(tokens, perPlayer[Beta]...)
	return tokens, states, hills, nil
}
