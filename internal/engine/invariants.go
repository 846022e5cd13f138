package engine

import (
	"math"

	"github.com/anderote/dysonforge/internal/catalog"
)

// CheckInvariants verifies the post-tick invariants of spec.md §3. A
// failure here is fatal: the Engine Loop stops and surfaces the last
// good snapshot (spec.md §7 InvariantError).
func CheckInvariants(cat *catalog.Catalog, g *GameState) error {
	for zoneID, z := range g.Zones {
		for name, v := range map[string]float64{
			"mass_remaining": z.MassRemaining,
			"stored_metal":   z.StoredMetal,
			"probe_mass":     z.ProbeMass,
			"structure_mass": z.StructureMass,
			"slag_mass":      z.SlagMass,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < -1e-6 {
				return &InvariantError{Invariant: "non-negative kg fields", Detail: zoneID + "." + name}
			}
		}
		if z.MassRemaining <= 0 && !z.Depleted {
			return &InvariantError{Invariant: "depletion flag", Detail: zoneID + " has zero mass but depleted=false"}
		}
	}

	for zoneID, alloc := range g.ProbeAllocationsByZone {
		if alloc.Sum() > 1.0000001 {
			return &InvariantError{Invariant: "allocation sum <= 1", Detail: zoneID}
		}
		for _, v := range []float64{alloc.Harvest, alloc.Replicate, alloc.Recycle, alloc.Dyson, alloc.Construct} {
			if v < 0 || v > 1.0000001 {
				return &InvariantError{Invariant: "allocation in [0,1]", Detail: zoneID}
			}
		}
	}

	if g.Dyson.Progress < 0 || g.Dyson.Progress > 1 {
		return &InvariantError{Invariant: "dyson progress in [0,1]", Detail: ""}
	}
	if g.Rates.EnergyThrottle < 0.05-1e-9 || g.Rates.EnergyThrottle > 1.0000001 {
		return &InvariantError{Invariant: "energy throttle in [0.05, 1.0]", Detail: ""}
	}

	for _, t := range g.ActiveTransfers {
		for _, b := range t.InTransit {
			if b.ArrivalTime < b.DepartureTime-1e-9 {
				return &InvariantError{Invariant: "transfer batch arrival >= departure", Detail: t.ID}
			}
		}
	}

	if g.Tech != nil {
		for treeID, ts := range g.Tech.Trees {
			tree, ok := cat.ResearchTrees[treeID]
			if !ok {
				continue
			}
			for i, tier := range ts.Tiers {
				if i >= len(tree.Tiers) {
					continue
				}
				if tier.TranchesCompleted > tree.Tiers[i].Tranches {
					return &InvariantError{Invariant: "tranches_completed <= tranches_total", Detail: treeID + "/" + tier.TierID}
				}
			}
		}
	}

	return nil
}
