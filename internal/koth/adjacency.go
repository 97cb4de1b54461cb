package koth

import "koth/internal/orbit"

// AdjacencyGraph is the directed graph over all tokens with an edge
// u -> v iff position(v) is in {position(u)} union all_adjacent_sectors
// (position(u)), excluding self (§4.C). It is rebuilt fresh on every
// phase transition; it carries no state beyond the token positions it
// was built from.
type AdjacencyGraph struct {
	neighbors map[TokenID][]TokenID
}

// BuildAdjacency constructs the adjacency graph for the given token
// position snapshot.
func BuildAdjacency(grid *orbit.Grid, tokens []TokenID, states map[TokenID]*orbit.TokenState) (*AdjacencyGraph, error) {
	bySector := make(map[orbit.SectorID][]TokenID)
	for _, t := range tokens {
		pos := states[t].Position
		bySector[pos] = append(bySector[pos], t)
	}

	adjCache := make(map[orbit.SectorID][]orbit.SectorID)
	g := &AdjacencyGraph{neighbors: make(map[TokenID][]TokenID, len(tokens))}

	for _, u := range tokens {
		uPos := states[u].Position
		sectors, ok := adjCache[uPos]
		if !ok {
			var err error
			sectors, err = grid.AllAdjacentSectors(uPos)
			if err != nil {
				return nil, err
			}
			adjCache[uPos] = sectors
		}

		var neighbors []TokenID
		for _, v := range bySector[uPos] {
			if v != u {
				neighbors = append(neighbors, v)
			}
		}
		for _, s := range sectors {
			neighbors = append(neighbors, bySector[s]...)
		}
		g.neighbors[u] = neighbors
	}

	return g, nil
}

// Neighbors returns every token adjacent to t (same sector or an
// adjacent sector), excluding t itself.
func (g *AdjacencyGraph) Neighbors(t TokenID) []TokenID {
	return g.neighbors[t]
}

// HasEdge reports whether v is adjacent to u.
func (g *AdjacencyGraph) HasEdge(u, v TokenID) bool {
	for _, n := range g.neighbors[u] {
		if n == v {
			return true
		}
	}
	return false
}
