// Package orbit implements the orbital gridworld: sector numbering,
// ring/azimuth coordinates, and the adjacency rules tokens move and
// fight across.
package orbit

import (
	"fmt"
	"math/bits"
)

// SectorID addresses one cell of the grid by its position in the
// complete binary-tree tessellation. Sector 0 is the innermost
// (ring 0); sector numbering is a global bijection over the full
// tree regardless of which rings a particular Grid makes playable.
type SectorID int

// ErrInvalidSector is returned whenever a sector number falls outside
// the addressable range of the full binary tree, or a ring falls
// outside [0, maxRing].
type ErrInvalidSector struct {
	Sector SectorID
	Reason string
}

func (e *ErrInvalidSector) Error() string {
	return fmt.Sprintf("orbit: invalid sector %d: %s", e.Sector, e.Reason)
}

// Grid is an immutable description of a ring range [MinRing, MaxRing]
// within the full binary-tree tessellation. Rings below MinRing exist
// in the addressing scheme (so sector numbers stay a stable global
// bijection) but are not playable.
type Grid struct {
	MinRing int
	MaxRing int
}

// NewGrid validates and constructs a Grid over [minRing, maxRing].
func NewGrid(minRing, maxRing int) (*Grid, error) {
	if minRing < 0 {
		return nil, fmt.Errorf("orbit: min_ring must be >= 0, got %d", minRing)
	}
	if maxRing < minRing {
		return nil, fmt.Errorf("orbit: max_ring (%d) must be >= min_ring (%d)", maxRing, minRing)
	}
	return &Grid{MinRing: minRing, MaxRing: maxRing}, nil
}

// NumSectorsInRing returns 2^ring, the number of sectors at that radius.
func (g *Grid) NumSectorsInRing(ring int) int {
	return 1 << uint(ring)
}

// NumSectors returns the count of sectors across [MinRing, MaxRing].
func (g *Grid) NumSectors() int {
	total := 0
	for r := g.MinRing; r <= g.MaxRing; r++ {
		total += g.NumSectorsInRing(r)
	}
	return total
}

// validRing reports whether ring lies within the full addressable
// tree, i.e. [0, MaxRing] (MinRing trims playability, not addressing).
func (g *Grid) validRing(ring int) bool {
	return ring >= 0 && ring <= g.MaxRing
}

// SectorToRingAzim decomposes a sector number into its (ring, azimuth)
// coordinates. ring = floor(log2(sector+1)); azim = sector - (2^ring - 1).
func (g *Grid) SectorToRingAzim(s SectorID) (ring, azim int, err error) {
	if s < 0 {
		return 0, 0, &ErrInvalidSector{Sector: s, Reason: "negative sector"}
	}
	ring = bits.Len(uint(s)+1) - 1
	if !g.validRing(ring) {
		return 0, 0, &ErrInvalidSector{Sector: s, Reason: "sector outside addressable range"}
	}
	azim = int(s) - (1<<uint(ring) - 1)
	return ring, azim, nil
}

// RingAzimToSector is the inverse of SectorToRingAzim.
func (g *Grid) RingAzimToSector(ring, azim int) (SectorID, error) {
	if !g.validRing(ring) {
		return 0, &ErrInvalidSector{Reason: fmt.Sprintf("ring %d out of range [0,%d]", ring, g.MaxRing)}
	}
	size := g.NumSectorsInRing(ring)
	if azim < 0 || azim >= size {
		return 0, &ErrInvalidSector{Reason: fmt.Sprintf("azimuth %d out of range [0,%d) for ring %d", azim, size, ring)}
	}
	return SectorID(1<<uint(ring) - 1 + azim), nil
}

// RelativeAzimuth returns the sector offset relAzim steps around the
// same ring as s (azimuth wraps modulo ring size).
func (g *Grid) RelativeAzimuth(s SectorID, relAzim int) (SectorID, error) {
	ring, azim, err := g.SectorToRingAzim(s)
	if err != nil {
		return 0, err
	}
	size := g.NumSectorsInRing(ring)
	newAzim := ((azim+relAzim)%size + size) % size
	return g.RingAzimToSector(ring, newAzim)
}

// Prograde returns the sector one azimuth step forward on the same ring.
func (g *Grid) Prograde(s SectorID) (SectorID, error) {
	return g.RelativeAzimuth(s, 1)
}

// Retrograde returns the sector one azimuth step backward on the same ring.
func (g *Grid) Retrograde(s SectorID) (SectorID, error) {
	return g.RelativeAzimuth(s, -1)
}

// RadialIn returns the parent sector one ring inward, or (0, false) if
// s is already on ring 0.
func (g *Grid) RadialIn(s SectorID) (SectorID, bool, error) {
	ring, azim, err := g.SectorToRingAzim(s)
	if err != nil {
		return 0, false, err
	}
	if ring < 1 {
		return 0, false, nil
	}
	parentAzim := azim >> 1
	sec, err := g.RingAzimToSector(ring-1, parentAzim)
	return sec, err == nil, err
}

// RadialOut returns the lowest-numbered of the two child sectors one
// ring outward, or (0, false) if s is already on MaxRing. The
// tie-break rule is the child whose azimuth bit-string appends a 0
// (i.e. azim*2).
func (g *Grid) RadialOut(s SectorID) (SectorID, bool, error) {
	ring, azim, err := g.SectorToRingAzim(s)
	if err != nil {
		return 0, false, err
	}
	if ring >= g.MaxRing {
		return 0, false, nil
	}
	childAzim := azim * 2
	sec, err := g.RingAzimToSector(ring+1, childAzim)
	if err != nil {
		return 0, false, err
	}
	return sec, true, nil
}

// AllAdjacentSectors returns the full adjacency set of s per §4.C:
// same-ring azimuth±1, both children in ring+1 (if any), and the
// parent in ring-1 (if any). s itself is never included.
func (g *Grid) AllAdjacentSectors(s SectorID) ([]SectorID, error) {
	pro, err := g.Prograde(s)
	if err != nil {
		return nil, err
	}
	ret, err := g.Retrograde(s)
	if err != nil {
		return nil, err
	}

	seen := map[SectorID]bool{s: true}
	var adj []SectorID
	for _, c := range []SectorID{pro, ret} {
		if !seen[c] {
			seen[c] = true
			adj = append(adj, c)
		}
	}

	if in, ok, err := g.RadialIn(s); err != nil {
		return nil, err
	} else if ok && !seen[in] {
		seen[in] = true
		adj = append(adj, in)
	}

	if out, ok, err := g.RadialOut(s); err != nil {
		return nil, err
	} else if ok {
		if !seen[out] {
			seen[out] = true
			adj = append(adj, out)
		}
		outSibling, err := g.Prograde(out)
		if err != nil {
			return nil, err
		}
		if !seen[outSibling] {
			seen[outSibling] = true
			adj = append(adj, outSibling)
		}
	}

	return adj, nil
}
