package engine

import (
	"math"

	"github.com/anderote/dysonforge/internal/catalog"
)

// dysonReferenceConstantWAU2 is the 5000 in power_per_kg = 5000/r_AU^2;
// at the Dyson zone's reference radius (0.29 AU) that gives ≈59,500
// W/kg (§4.9).
const dysonReferenceConstantWAU2 = 5000

// energyBalance is step 3 of the Engine Loop (§4.10, §4.5): sum
// production and consumption across every source, then derive the
// uniform throttle scalar for this tick. It mutates g.Rates and
// returns theta for convenience.
func energyBalance(cat *catalog.Catalog, g *GameState) float64 {
	production := g.BaseEnergyProduction
	production += probeEnergyProduction(cat, g)
	production += structureEnergyProduction(cat, g)
	production += dysonEconomyProduction(cat, g)
	production *= 1 + skillBonus(g, "energy_bonus")

	consumption := probeEnergyConsumption(cat, g)
	consumption += structureEnergyConsumption(cat, g)

	theta := energyThrottle(production, consumption)

	g.Rates.EnergyProduction = production
	g.Rates.EnergyConsumption = consumption
	g.Rates.EnergyThrottle = theta
	return theta
}

func probeEnergyProduction(cat *catalog.Catalog, g *GameState) float64 {
	if cat.Economic.BaseProbeProductionW == 0 {
		return 0
	}
	total := 0.0
	factor := upgradeFactor(g, "probe_mining")
	for zoneID := range g.ProbesByZone {
		total += float64(g.ZoneProbeCount(zoneID)) * cat.Economic.BaseProbeProductionW * factor
	}
	return total
}

func structureEnergyProduction(cat *catalog.Catalog, g *GameState) float64 {
	total := 0.0
	perf := upgradeFactor(g, "structure.energy")
	for zoneID, structures := range g.StructuresByZone {
		zone, ok := cat.GetZone(zoneID)
		if !ok {
			continue
		}
		for buildingID, k := range structures {
			if k <= 0 {
				continue
			}
			b, ok := cat.GetBuilding(buildingID)
			if !ok || b.PowerOutputMW <= 0 {
				continue
			}
			solar := 1.0
			if b.UsesSolar {
				solar = zone.SolarIrradianceFactor
			}
			total += b.PowerOutputMW * 1e6 * math.Pow(float64(k), 3.2) * solar * perf
		}
	}
	return total
}

func dysonEconomyProduction(cat *catalog.Catalog, g *GameState) float64 {
	total, _ := dysonTotalPower(cat, g)
	alloc := g.DysonPowerAllocation
	return (1 - alloc) * total
}

// dysonTotalPower computes the Dyson sphere's current wattage from its
// accumulated mass (§4.9); it reads the mass carried over from the
// prior tick, since the Dyson System itself runs after Energy Balance.
func dysonTotalPower(cat *catalog.Catalog, g *GameState) (total float64, rAU float64) {
	rAU = 0.29
	if z, ok := cat.GetZone(dysonZoneID(cat)); ok && z.RadiusAU > 0 {
		rAU = z.RadiusAU
	}
	perf := upgradeFactor(g, "energy_generation")
	total = g.Dyson.Mass * (dysonReferenceConstantWAU2 / (rAU * rAU)) * perf
	return total, rAU
}

// dysonZoneID returns the catalog's designated Dyson zone, or "dyson"
// if none is flagged (the shipped catalog always flags exactly one).
func dysonZoneID(cat *catalog.Catalog) string {
	for id, z := range cat.Zones {
		if z.IsDyson {
			return id
		}
	}
	return "dyson"
}

func probeEnergyConsumption(cat *catalog.Catalog, g *GameState) float64 {
	total := 0.0
	consumptionDamp := upgradeFactor(g, "probe_energy_consumption")
	miningDamp := upgradeFactor(g, "production")
	recyclingDamp := upgradeFactor(g, "recycling") * upgradeFactor(g, "materials")

	for zoneID, alloc := range g.ProbeAllocationsByZone {
		n := float64(g.ZoneProbeCount(zoneID))
		if n <= 0 {
			continue
		}
		if alloc.Harvest > 0 {
			total += n * alloc.Harvest * cat.Economic.BaseMiningW / (consumptionDamp * miningDamp)
		}
		if alloc.Recycle > 0 {
			total += n * alloc.Recycle * cat.Economic.BaseRecycleSlagW / (consumptionDamp * recyclingDamp)
		}
	}
	return total
}

func structureEnergyConsumption(cat *catalog.Catalog, g *GameState) float64 {
	total := 0.0
	transport := upgradeFactor(g, "energy_transport")
	for zoneID, structures := range g.StructuresByZone {
		_ = zoneID
		for buildingID, k := range structures {
			if k <= 0 {
				continue
			}
			b, ok := cat.GetBuilding(buildingID)
			if !ok {
				continue
			}
			costFactor := b.StructureCostFactor
			if costFactor <= 0 {
				costFactor = 1
			}
			cost := (b.BasePowerConsumptionMW*1e6 + b.EnergyCostMultiplier*cat.Economic.BaseStructureCostW) *
				math.Pow(float64(k), 3.2) / costFactor
			if b.IsMassDriver {
				cost /= transport
			}
			total += cost
		}
	}
	return total
}

// energyThrottle implements the smooth exponential-decay throttle
// curve of §4.5, floored at 5% and capped at 100%.
func energyThrottle(production, consumption float64) float64 {
	if consumption <= 0 || production >= consumption {
		return 1
	}
	if production <= 0 {
		return 0.05
	}
	ratio := consumption / production
	return math.Max(0.05, math.Pow(0.05, math.Log10(ratio)/10))
}
