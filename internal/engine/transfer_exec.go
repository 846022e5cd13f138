package engine

import (
	"math"

	"github.com/anderote/dysonforge/internal/catalog"
)

const (
	minBatchProbes = 1.0
	minBatchMetalKg = 100.0
)

// massDriverSpeedMultiplier implements speed_multiplier(k) from §4.8:
// a floor of 5% with no mass drivers contributing no speedup (k=0
// returns 1, i.e. the unscaled catalog nominal time).
func massDriverSpeedMultiplier(k int) float64 {
	if k < 1 {
		return 1
	}
	return 0.05 + 0.95*math.Exp(-0.3*float64(k))
}

// runTransfers is step 6 of the Engine Loop: advance every active
// transfer's departures and arrivals, then drop completed one-time
// transfers from the active list (§4.8, §4.10).
func runTransfers(cat *catalog.Catalog, g *GameState, dt, now float64) {
	kept := g.ActiveTransfers[:0]
	for _, t := range g.ActiveTransfers {
		if t.Status == TransferPaused {
			kept = append(kept, t)
			continue
		}
		if t.IsContinuous() {
			processContinuousTransfer(cat, g, t, dt, now)
			kept = append(kept, t)
			continue
		}
		processOneTimeTransfer(g, t, now)
		if t.Status != TransferCompleted {
			kept = append(kept, t)
		}
	}
	g.ActiveTransfers = kept
}

func recomputeTransferTime(cat *catalog.Catalog, g *GameState, t *Transfer) {
	entry, ok := cat.DeltaV(t.FromZone, t.ToZone)
	if !ok {
		return
	}
	k := cat.MassDriverCount(g.StructuresByZone[t.FromZone])
	propulsion := upgradeFactor(g, "propulsion")

	// The §6 delta-v skill bonuses buy extra route speed on top of the
	// tech-tree's own propulsion upgrade factor: probe_dv_bonus for
	// probe shipments, mass_driver_dv_bonus for mass-driver-launched
	// metal shipments.
	dvBonus := skillBonus(g, "mass_driver_dv_bonus")
	if t.IsProbeTransfer() {
		dvBonus = skillBonus(g, "probe_dv_bonus")
	}

	t.TransferDays = entry.NominalDays * massDriverSpeedMultiplier(k) / (propulsion * (1 + dvBonus))
	t.DeltaVCostKmS = entry.DeltaVKmS
}

func processContinuousTransfer(cat *catalog.Catalog, g *GameState, t *Transfer, dt, now float64) {
	recomputeTransferTime(cat, g, t)

	var sendRate float64
	if t.Kind == ContinuousProbe {
		sendRate = float64(g.ZoneProbeCount(t.FromZone)) * t.RatePerDay / 100
	} else {
		sendRate = t.RatePerDay
	}
	t.Accumulator += sendRate * dt

	minBatch := minBatchMetalKg
	if t.IsProbeTransfer() {
		minBatch = minBatchProbes
	}

	for t.Accumulator >= minBatch {
		available := sourceAvailable(g, t)
		if available < minBatch {
			break
		}
		amount := math.Floor(math.Min(t.Accumulator, available))
		if amount < minBatch {
			break
		}
		deductFromSource(g, t, amount)
		t.InTransit = append(t.InTransit, Batch{
			Amount:        amount,
			DepartureTime: now,
			ArrivalTime:   now + t.TransferDays,
		})
		t.Accumulator -= amount
	}

	arrived := t.InTransit[:0]
	for _, b := range t.InTransit {
		if b.ArrivalTime <= now {
			creditDestination(g, t, b.Amount)
			continue
		}
		arrived = append(arrived, b)
	}
	t.InTransit = arrived
}

func processOneTimeTransfer(g *GameState, t *Transfer, now float64) {
	if t.Status != TransferTraveling || len(t.InTransit) == 0 {
		return
	}
	batch := t.InTransit[0]
	if batch.ArrivalTime > now {
		return
	}
	creditDestination(g, t, batch.Amount)
	t.InTransit = nil
	t.Status = TransferCompleted
}

func sourceAvailable(g *GameState, t *Transfer) float64 {
	zone, ok := g.Zones[t.FromZone]
	if !ok {
		return 0
	}
	if t.IsProbeTransfer() {
		return float64(g.ProbesByZone[t.FromZone]["probe"])
	}
	return zone.StoredMetal
}

func deductFromSource(g *GameState, t *Transfer, amount float64) {
	zone := g.Zones[t.FromZone]
	if t.IsProbeTransfer() {
		g.ProbesByZone[t.FromZone]["probe"] -= int(amount)
		zone.ProbeMass -= amount * 100
	} else {
		zone.StoredMetal -= amount
	}
}

func creditDestination(g *GameState, t *Transfer, amount float64) {
	zone := g.EnsureZone(t.ToZone, 0)
	if t.IsProbeTransfer() {
		if g.ProbesByZone[t.ToZone] == nil {
			g.ProbesByZone[t.ToZone] = map[string]int{}
		}
		g.ProbesByZone[t.ToZone]["probe"] += int(amount)
		zone.ProbeMass += amount * 100
	} else {
		zone.StoredMetal += amount
	}
	t.Delivered += amount
}

// MetalTransferCapacityGTPerDay is the display-only capacity metric
// from §4.8 ("per-tick flow is governed by the rate field and
// available stock" — this figure is advisory, not enforced).
func MetalTransferCapacityGTPerDay(cat *catalog.Catalog, g *GameState, zoneID string) float64 {
	k := cat.MassDriverCount(g.StructuresByZone[zoneID])
	if k < 1 {
		return 0
	}
	transport := upgradeFactor(g, "transport_upgrade")
	energyTransport := upgradeFactor(g, "energy_transport")
	strength := upgradeFactor(g, "strength")
	locomotion := upgradeFactor(g, "manipulation")
	return 100 * float64(k) * transport * energyTransport * math.Sqrt(strength) * math.Sqrt(locomotion)
}

// deleteTransfer removes t from g.ActiveTransfers and restores every
// in-flight batch plus the un-batched accumulator to the source zone
// (§4.8 "Deletion", §8 testable property).
func deleteTransfer(g *GameState, transferID string) bool {
	for i, t := range g.ActiveTransfers {
		if t.ID != transferID {
			continue
		}
		restoreInFlight(g, t)
		g.ActiveTransfers = append(g.ActiveTransfers[:i], g.ActiveTransfers[i+1:]...)
		return true
	}
	return false
}

func restoreInFlight(g *GameState, t *Transfer) {
	zone, ok := g.Zones[t.FromZone]
	if !ok {
		return
	}
	total := t.Accumulator
	for _, b := range t.InTransit {
		total += b.Amount
	}
	if t.IsProbeTransfer() {
		if g.ProbesByZone[t.FromZone] == nil {
			g.ProbesByZone[t.FromZone] = map[string]int{}
		}
		g.ProbesByZone[t.FromZone]["probe"] += int(total)
		zone.ProbeMass += total * 100
	} else {
		zone.StoredMetal += total
	}
	t.InTransit = nil
	t.Accumulator = 0
}
