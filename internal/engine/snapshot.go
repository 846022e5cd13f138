package engine

import (
	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/core"
)

// rollupDerived is step 9 of the Engine Loop: recompute the per-zone
// and global observability rollups and sample stats_history at the
// configured interval.
func rollupDerived(cat *catalog.Catalog, g *GameState, sampleEvery uint64) {
	global := 0.0
	for zoneID, z := range g.Zones {
		total := z.TotalMass()
		g.Derived.ZoneTotalMass[zoneID] = total
		g.Derived.ProbeCount[zoneID] = g.ZoneProbeCount(zoneID)
		global += total
	}
	g.Derived.GlobalMass = global

	ratio := cat.Economic.MetalDysonRatio
	if ratio <= 0 {
		ratio = 2
	}
	g.Derived.ConservedMass = global + g.Dyson.Mass*ratio

	capacity := make(map[string]float64, len(g.Zones))
	for zoneID := range g.Zones {
		if c := MetalTransferCapacityGTPerDay(cat, g, zoneID); c > 0 {
			capacity[zoneID] = c
		}
	}
	g.Derived.TransferCapacityGTPerDay = capacity

	positions := make(map[string][]float64, len(g.ActiveTransfers))
	for _, t := range g.ActiveTransfers {
		if len(t.InTransit) == 0 {
			continue
		}
		pos := make([]float64, len(t.InTransit))
		for i, b := range t.InTransit {
			pos[i] = b.Position(g.Time)
		}
		positions[t.ID] = pos
	}
	g.Derived.TransferPositions = positions

	if sampleEvery == 0 {
		sampleEvery = 30
	}
	if g.Tick%sampleEvery == 0 {
		g.StatsHistory = append(g.StatsHistory, StatsSample{
			Tick: g.Tick,
			Time: g.Time,
			Stat: map[string]float64{
				"global_mass":        g.Derived.GlobalMass,
				"dyson_mass":         g.Dyson.Mass,
				"energy_throttle":    g.Rates.EnergyThrottle,
				"metal_mining_total": g.Rates.MetalMiningTotal,
			},
		})
	}
}

// snapshot produces the published, read-only view of g: a deep clone
// with a fresh content hash chained onto the previous tick's hash
// (spec.md §5 "published snapshot must behave as if deeply cloned").
func snapshot(g *GameState, prevHash string, hasher func(*GameState) []byte) *GameState {
	clone := g.Clone()
	clone.ChainHash = core.ChainHash(prevHash, hasher(clone))
	return clone
}
