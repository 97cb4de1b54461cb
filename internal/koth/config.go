package koth

import "koth/internal/orbit"

// EngagementFuelUsage is the fuel cost of Shoot/Collide/Guard for one
// sector relation (in-sector or adjacent-sector target).
type EngagementFuelUsage struct {
	Shoot   float64
	Collide float64
	Guard   float64
}

// FuelUsage is a player's full fuel-cost table, struct-of-arrays
// indexed by movement kind and, for engagements, by sector relation.
type FuelUsage struct {
	NoOp       float64
	Drift      float64
	Prograde   float64
	Retrograde float64
	RadialIn   float64
	RadialOut  float64
	InSector   EngagementFuelUsage
	AdjSector  EngagementFuelUsage
}

// EngagementProbs holds the base success probability of Shoot/Collide/
// Guard for one sector relation. NoOp's probability is always 1 and is
// not stored here (§4.F).
type EngagementProbs struct {
	Shoot   float64
	Collide float64
	Guard   float64
}

// EngageProbTable is a player's full engagement-probability table.
type EngageProbTable struct {
	InSector  EngagementProbs
	AdjSector EngagementProbs
}

// RoleFuel holds a per-role fuel value, e.g. starting fuel.
type RoleFuel struct {
	Seeker  float64
	Bludger float64
}

// RoleAmmo holds a per-role starting ammo count.
type RoleAmmo struct {
	Seeker  int
	Bludger int
}

// PlayerConfig is every tunable that may differ between Alpha and
// Beta (§D.1 asymmetric game parameters).
type PlayerConfig struct {
	InitPattern             orbit.BoardPattern
	InitFuel                RoleFuel
	InitAmmo                RoleAmmo
	FuelUsage               FuelUsage
	EngageProbs             EngageProbTable
	InGoalPoints            float64
	AdjGoalPoints           float64
	FuelPointsFactorSeeker  float64
	FuelPointsFactorBludger float64
	WinScore                float64
}

// GameConfig is the full immutable per-session configuration, built
// once and never mutated (§9 design notes).
type GameConfig struct {
	MinRing            int
	MaxRing            int
	GeoRing            int
	MinFuel            float64
	MaxTurns           int
	IllegalActionScore float64
	Players            [2]PlayerConfig
}

// defaultPlayerConfig mirrors default_game_parameters.py, symmetric
// across both players unless overridden.
func defaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		InitPattern: orbit.BoardPattern{
			{RelAzim: -2, Count: 1},
			{RelAzim: -1, Count: 3},
			{RelAzim: 0, Count: 2},
			{RelAzim: 1, Count: 3},
			{RelAzim: 2, Count: 1},
		},
		InitFuel: RoleFuel{Seeker: 100.0, Bludger: 100.0},
		InitAmmo: RoleAmmo{Seeker: 0, Bludger: 1},
		FuelUsage: FuelUsage{
			NoOp:       0.0,
			Drift:      1.0,
			Prograde:   5.0,
			Retrograde: 10.0,
			RadialIn:   1.0,
			RadialOut:  1.0,
			InSector:   EngagementFuelUsage{Shoot: 5.0, Collide: 20.0, Guard: 20.0},
			AdjSector:  EngagementFuelUsage{Shoot: 5.0, Collide: 30.0, Guard: 30.0},
		},
		EngageProbs: EngageProbTable{
			InSector:  EngagementProbs{Shoot: 0.7, Collide: 0.8, Guard: 0.9},
			AdjSector: EngagementProbs{Shoot: 0.5, Collide: 0.7, Guard: 0.8},
		},
		InGoalPoints:            3.0,
		AdjGoalPoints:           1.0,
		FuelPointsFactorSeeker:  1.0,
		FuelPointsFactorBludger: 1.0,
		WinScore:                100.0,
	}
}

// DefaultConfig returns the symmetric default configuration used by
// spec.md §8 S2/S4 and by the original's default_game_parameters.py.
func DefaultConfig() GameConfig {
	p := defaultPlayerConfig()
	return GameConfig{
		MinRing:            1,
		MaxRing:            5,
		GeoRing:            4,
		MinFuel:            0.0,
		MaxTurns:           100,
		IllegalActionScore: -1000.0,
		Players:            [2]PlayerConfig{p, p},
	}
}

func (c GameConfig) playerConfig(p PlayerID) PlayerConfig {
	return c.Players[p]
}

func (pc PlayerConfig) initFuel(r Role) float64 {
	if r == Seeker {
		return pc.InitFuel.Seeker
	}
	return pc.InitFuel.Bludger
}

func (pc PlayerConfig) initAmmo(r Role) int {
	if r == Seeker {
		return pc.InitAmmo.Seeker
	}
	return pc.InitAmmo.Bludger
}

func (pc PlayerConfig) fuelPointsFactor(r Role) float64 {
	if r == Seeker {
		return pc.FuelPointsFactorSeeker
	}
	return pc.FuelPointsFactorBludger
}

func movementFuelCost(fu FuelUsage, kind ActionKind) float64 {
	switch kind {
	case ActionNoOp:
		return fu.NoOp
	case ActionProgradeKind:
		return fu.Prograde
	case ActionRetrogradeKind:
		return fu.Retrograde
	case ActionRadialInKind:
		return fu.RadialIn
	case ActionRadialOutKind:
		return fu.RadialOut
	default:
		return 0
	}
}

func engagementFuelCost(fu FuelUsage, kind ActionKind, rel SectorRelation) float64 {
	tbl := fu.InSector
	if rel == AdjSector {
		tbl = fu.AdjSector
	}
	switch kind {
	case ActionShootKind:
		return tbl.Shoot
	case ActionCollideKind:
		return tbl.Collide
	case ActionGuardKind:
		return tbl.Guard
	default:
		return 0
	}
}

func engagementProbability(ep EngageProbTable, kind ActionKind, rel SectorRelation) float64 {
	if kind == ActionNoOp {
		return 1.0
	}
	tbl := ep.InSector
	if rel == AdjSector {
		tbl = ep.AdjSector
	}
	switch kind {
	case ActionShootKind:
		return tbl.Shoot
	case ActionCollideKind:
		return tbl.Collide
	case ActionGuardKind:
		return tbl.Guard
	default:
		return 0
	}
}
