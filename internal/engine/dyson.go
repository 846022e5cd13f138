package engine

import (
	"math"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/production"
)

// runDyson is step 7 of the Engine Loop (§4.9): advance Dyson-sphere
// construction from the Dyson zone's stored metal and split the
// sphere's output between the economy and compute.
func runDyson(cat *catalog.Catalog, g *GameState, theta, dt float64) {
	zoneID := dysonZoneID(cat)
	zone, ok := g.Zones[zoneID]
	if !ok {
		return
	}
	catZone, _ := cat.GetZone(zoneID)

	n := float64(g.ZoneProbeCount(zoneID))
	alloc := g.ProbeAllocationsByZone[zoneID].Dyson
	beta := cat.Economic.Crowding.Exponent("construct")
	perf := upgradeFactor(g, "dyson_build")

	buildRate := production.BuildingRate(n*alloc, beta, perf, 1.0, true) * theta
	if buildRate > 0 {
		ratio := cat.Economic.MetalDysonRatio
		if ratio <= 0 {
			ratio = 2
		}
		metalNeeded := buildRate * dt * ratio
		metalConsumed := math.Min(metalNeeded, zone.StoredMetal)
		zone.StoredMetal -= metalConsumed

		massAdded := metalConsumed / ratio
		g.Dyson.Mass += massAdded
		g.CumulativeStats["total_dyson_mass_kg"] += massAdded
	}
	_ = catZone

	if g.Dyson.TargetMass <= 0 {
		g.Dyson.TargetMass = 2e21
	}
	g.Dyson.Progress = math.Max(0, math.Min(1, g.Dyson.Mass/g.Dyson.TargetMass))

	total, _ := dysonTotalPower(cat, g)
	g.Rates.IntelligenceRate = g.DysonPowerAllocation * total * (1 + skillBonus(g, "compute_bonus"))
}
