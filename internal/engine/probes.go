package engine

import (
	"math"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/production"
)

// probeProgressKey is the construction-progress map key for a zone's
// probe-replication accumulator (spec.md §4.7, §3 "structure_construction_*").
func probeProgressKey(zoneID string) string {
	return zoneID + "::probe"
}

// runProbeReplication is step 5 of the Engine Loop: for every zone
// with a positive replicate allocation, grow probe-mass progress
// against stored metal and commit whole probes at the mass threshold.
func runProbeReplication(cat *catalog.Catalog, g *GameState, theta, dt float64) {
	buildUpgrade := upgradeFactor(g, "probe_replicate")
	beta := cat.Economic.Crowding.Exponent("replicate")
	probeMassKg := cat.Economic.ProbeBaseRates.ProbeMassKg
	if probeMassKg <= 0 {
		probeMassKg = 100
	}

	for zoneID, alloc := range g.ProbeAllocationsByZone {
		if alloc.Replicate <= 0 {
			continue
		}
		zone, ok := g.Zones[zoneID]
		if !ok {
			continue
		}
		catZone, ok := cat.GetZone(zoneID)
		if !ok {
			continue
		}

		n := float64(g.ZoneProbeCount(zoneID))
		limits := g.ZoneMassLimits[zoneID]
		massThrottle := replicateMassThrottle(zone, limits.Replicate)
		if massThrottle <= 0 {
			continue
		}

		crowding := production.CrowdingPenalty(zone.ProbeMass, zone.TotalMass(), cat.Economic.Crowding.ThresholdRatio, cat.Economic.Crowding.DecayRate, catZone.IsDyson)
		replicationRate := production.BuildingRate(n*alloc.Replicate, beta, buildUpgrade, crowding, catZone.IsDyson) * theta * massThrottle *
			(1 + skillBonus(g, "replication_rate_bonus"))

		progressKG := replicationRate * dt
		if progressKG <= 0 {
			continue
		}

		metalRatio := 1.0
		if progressKG > 0 {
			metalRatio = math.Min(1, zone.StoredMetal/progressKG)
		}
		actualProgress := progressKG * metalRatio
		zone.StoredMetal -= actualProgress

		key := probeProgressKey(zoneID)
		g.ConstructionProgress[key] += actualProgress
		for g.ConstructionProgress[key] >= probeMassKg {
			g.ConstructionProgress[key] -= probeMassKg
			commitProbe(g, zoneID, probeMassKg)
		}
	}
}

// replicateMassThrottle implements the headroom-based mass-ratio
// throttle of §4.7: full speed with plenty of headroom below the
// zone's replicate mass-ratio cap, linearly throttled down inside the
// final 10% of headroom, zero at or above the cap.
func replicateMassThrottle(zone *Zone, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	total := zone.TotalMass()
	if total <= 0 {
		return 0
	}
	ratio := zone.ProbeMass / total
	if ratio >= limit {
		return 0
	}
	headroom := limit - ratio
	threshold := 0.1 * limit
	if threshold > 0 && headroom < threshold {
		return headroom / threshold
	}
	return 1
}

func commitProbe(g *GameState, zoneID string, probeMassKg float64) {
	if g.ProbesByZone[zoneID] == nil {
		g.ProbesByZone[zoneID] = map[string]int{}
	}
	g.ProbesByZone[zoneID]["probe"]++
	g.Zones[zoneID].ProbeMass += probeMassKg
	g.CumulativeStats["total_probes_built"]++
}
