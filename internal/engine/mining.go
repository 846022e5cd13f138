package engine

import (
	"math"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/production"
)

// recyclingSkillBaseline is the baseline value the recycling skill
// compounds from. Extraction efficiency only gets a bonus once the
// skill clears 0.75 (§4.4); starting it at exactly that threshold
// means an unresearched game matches the worked example in spec.md
// §8 scenario 1 exactly (η == zone.metal_percentage, no bonus).
const recyclingSkillBaseline = 0.75

// runMining is step 4 of the Engine Loop: mine every non-Dyson,
// non-depleted zone (§4.6). Zones the catalog no longer defines are
// skipped silently (a CatalogMissError in production code, not a
// fatal condition).
func runMining(cat *catalog.Catalog, g *GameState, theta, dt float64) {
	if g.Rates.MetalMiningByZone == nil {
		g.Rates.MetalMiningByZone = map[string]float64{}
	}
	g.Rates.MetalMiningTotal = 0

	probeMiningUpgrade := upgradeFactor(g, "probe_mining")
	refineryPerf := upgradeFactor(g, "refinery_mine")
	recyclingSkill := skillValue(cat, g, "recycling", recyclingSkillBaseline)

	for zoneID, zone := range g.Zones {
		catZone, ok := cat.GetZone(zoneID)
		if !ok || catZone.IsDyson || zone.Depleted {
			g.Rates.MetalMiningByZone[zoneID] = 0
			continue
		}

		n := float64(g.ZoneProbeCount(zoneID))
		alloc := g.ProbeAllocationsByZone[zoneID]

		probeRate := production.MiningRate(n*alloc.Harvest, catZone.MiningMultiplier, probeMiningUpgrade, false)
		structRate := structureMiningRate(cat, g, zoneID, catZone, refineryPerf)

		extractionRate := (probeRate + structRate) * theta * (1 + skillBonus(g, "mining_rate_bonus"))
		massExtracted := math.Min(zone.MassRemaining, extractionRate*dt)
		if massExtracted < 0 {
			massExtracted = 0
		}

		eta := production.ExtractionEfficiency(catZone.MetalPercentage, recyclingSkill, refineryExtractionBonus(cat, g, zoneID))
		metal := massExtracted * eta
		slag := massExtracted - metal

		zone.MassRemaining -= massExtracted
		zone.StoredMetal += metal
		zone.SlagMass += slag
		if zone.MassRemaining <= 0 {
			zone.MassRemaining = 0
			zone.Depleted = true
		}

		g.Rates.MetalMiningByZone[zoneID] = extractionRate * eta
		g.Rates.MetalMiningTotal += extractionRate * eta
		g.CumulativeStats["total_metal_mined_kg"] += metal
		g.CumulativeStats["total_slag_kg"] += slag
	}
}

func structureMiningRate(cat *catalog.Catalog, g *GameState, zoneID string, zone catalog.Zone, perf float64) float64 {
	structures := g.StructuresByZone[zoneID]
	if len(structures) == 0 {
		return 0
	}
	gamma := cat.Economic.GeometricScalingExponent("mining")
	total := 0.0
	for buildingID, k := range structures {
		if k <= 0 {
			continue
		}
		b, ok := cat.GetBuilding(buildingID)
		if !ok {
			continue
		}
		base := production.StructureBaseRate(b.MiningRateMultiplier, cat.Economic.ProbeBaseRates.MiningKgPerDay, b.Effects["mining_per_day"])
		if base <= 0 {
			continue
		}
		total += production.StructureRate(k, gamma, base, b.OrbitalEfficiencyFor(zoneID), perf)
	}
	return total
}

func refineryExtractionBonus(cat *catalog.Catalog, g *GameState, zoneID string) float64 {
	total := 0.0
	for buildingID, k := range g.StructuresByZone[zoneID] {
		if k <= 0 {
			continue
		}
		if b, ok := cat.GetBuilding(buildingID); ok && b.ExtractionBonus > 0 {
			total += b.ExtractionBonus * float64(k)
		}
	}
	return total
}
