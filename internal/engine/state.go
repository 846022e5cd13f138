// Package engine is the deterministic simulation core: the
// authoritative GameState, the per-tick system pipeline, and the
// Engine Loop that orchestrates them (spec.md §3, §4.10). Everything
// in this package is single-threaded-cooperative: one call to
// Engine.Tick is one atomic GameState -> GameState' transformation.
package engine

import (
	"github.com/anderote/dysonforge/internal/techtree"
)

// Zone is one orbital band's mutable mass pools (spec.md §3).
type Zone struct {
	MassRemaining float64 `json:"mass_remaining"`
	StoredMetal   float64 `json:"stored_metal"`
	ProbeMass     float64 `json:"probe_mass"`
	StructureMass float64 `json:"structure_mass"`
	SlagMass      float64 `json:"slag_mass"`
	Methalox      float64 `json:"methalox"`
	Depleted      bool    `json:"depleted"`
}

// TotalMass is the sum of a zone's five kg pools used by the mass
// conservation invariant (spec.md §3 invariant 1, §8).
func (z *Zone) TotalMass() float64 {
	return z.MassRemaining + z.StoredMetal + z.ProbeMass + z.StructureMass + z.SlagMass
}

// Allocation is a zone's probe-activity split, each fraction in
// [0,1] and summing to at most 1 (spec.md §3 invariant 3).
type Allocation struct {
	Harvest   float64 `json:"harvest"`
	Replicate float64 `json:"replicate"`
	Recycle   float64 `json:"recycle"`
	Dyson     float64 `json:"dyson"`
	Construct float64 `json:"construct"`
}

// Sum returns the total allocated fraction.
func (a Allocation) Sum() float64 {
	return a.Harvest + a.Replicate + a.Recycle + a.Dyson + a.Construct
}

// MassLimits caps the probe-mass fraction of a zone's total mass for
// each probe-mass-consuming activity (spec.md §3).
type MassLimits struct {
	Replicate     float64 `json:"replicate"`
	Construct     float64 `json:"construct"`
	RecycleProbes float64 `json:"recycle_probes"`
}

// DysonSphere is the singular Dyson-sphere construction progress.
type DysonSphere struct {
	TargetMass float64 `json:"target_mass"`
	Mass       float64 `json:"mass"`
	Progress   float64 `json:"progress"`
}

// Rates are the observable per-tick production/consumption figures
// emitted in each snapshot (spec.md §3 "rates").
type Rates struct {
	EnergyProduction  float64            `json:"energy_production"`
	EnergyConsumption float64            `json:"energy_consumption"`
	EnergyThrottle    float64            `json:"energy_throttle"`
	MetalMiningByZone map[string]float64 `json:"metal_mining_by_zone"`
	MetalMiningTotal  float64            `json:"metal_mining_total"`
	IntelligenceRate  float64            `json:"intelligence_production"`
}

// Derived is the per-tick rollup of observables that aren't raw
// inputs: per-zone totals and the global conserved-mass figure used
// by the mass-conservation invariant (spec.md §8).
type Derived struct {
	ZoneTotalMass   map[string]float64 `json:"zone_total_mass"`
	ProbeCount      map[string]int     `json:"probe_count_by_zone"`
	GlobalMass      float64            `json:"global_mass"`
	ConservedMass   float64            `json:"conserved_mass"` // Σ zone mass + dyson.mass*ratio
	CategoryFactors map[string]float64 `json:"category_factors"`

	// TransferCapacityGTPerDay is the advisory mass-driver metal
	// transfer capacity of §4.8, by origin zone; the per-tick flow
	// itself is still governed by each transfer's rate and available
	// stock, not this figure.
	TransferCapacityGTPerDay map[string]float64 `json:"transfer_capacity_gt_per_day"`

	// TransferPositions is each active transfer's in-transit batches'
	// fractional route position at this tick's time (§4.8 "transit
	// position" observable), keyed by transfer ID.
	TransferPositions map[string][]float64 `json:"transfer_positions"`
}

// StatsSample is one entry of the sampled observation history.
type StatsSample struct {
	Tick uint64             `json:"tick"`
	Time float64             `json:"time"`
	Stat map[string]float64 `json:"stat"`
}

// GameState is the single authoritative, cloned-between-ticks state
// described in spec.md §3.
type GameState struct {
	Time float64 `json:"time"`
	Tick uint64  `json:"tick"`
	Speed float64 `json:"speed"`

	Zones map[string]*Zone `json:"zones"`

	ProbesByZone           map[string]map[string]int       `json:"probes_by_zone"`
	ProbeAllocationsByZone map[string]Allocation            `json:"probe_allocations_by_zone"`
	ZoneMassLimits         map[string]MassLimits            `json:"zone_mass_limits"`

	StructuresByZone map[string]map[string]int `json:"structures_by_zone"`

	// Construction* are keyed "zone::building" (or "zone::probe" for
	// the probe-replication accumulator, spec.md §4.7).
	ConstructionProgress   map[string]float64 `json:"structure_construction_progress"`
	ConstructionTargets    map[string]float64 `json:"structure_construction_targets"`
	ConstructionStartTimes map[string]float64 `json:"structure_construction_start_times"`
	EnabledConstruction    []string           `json:"enabled_construction"`

	Dyson DysonSphere `json:"dyson_sphere"`

	ActiveTransfers []*Transfer `json:"active_transfers"`

	Tech *techtree.State `json:"tech_tree"`

	UpgradeFactors     map[string]float64 `json:"upgrade_factors"`
	TechUpgradeFactors map[string]float64 `json:"tech_upgrade_factors"`

	Rates           Rates              `json:"rates"`
	Derived         Derived            `json:"derived"`
	CumulativeStats map[string]float64 `json:"cumulative_stats"`
	StatsHistory    []StatsSample      `json:"stats_history"`

	BaseEnergyProduction float64 `json:"base_energy_production"`

	// SkillBonuses are the seven start-time bonuses of spec.md §6,
	// copied in once from Config at NewGameState and read every tick
	// by techfactors.go's skillBonus alongside the tech-tree upgrade
	// factors. They do not change after start; there is no action that
	// mutates them.
	SkillBonuses map[string]float64 `json:"skill_bonuses"`

	// DysonPowerAllocation splits Dyson output between the economy
	// (energy balance) and compute (intelligence production), §4.9.
	DysonPowerAllocation float64 `json:"dyson_power_allocation"`

	// ChainHash is the tamper-evident hash-chain link for this
	// committed tick (see internal/core and DESIGN.md).
	ChainHash string `json:"chain_hash"`
}

// EnsureZone lazily creates a zone entry from the catalog's total mass
// on first reference (spec.md §3 lifecycle), returning the existing or
// newly created zone.
func (g *GameState) EnsureZone(zoneID string, totalMassKG float64) *Zone {
	if z, ok := g.Zones[zoneID]; ok {
		return z
	}
	z := &Zone{MassRemaining: totalMassKG, Depleted: totalMassKG <= 0}
	g.Zones[zoneID] = z
	return z
}

// ZoneProbeCount sums all probe types present in a zone.
func (g *GameState) ZoneProbeCount(zoneID string) int {
	total := 0
	for _, n := range g.ProbesByZone[zoneID] {
		total += n
	}
	return total
}

// Clone produces a deep, value-equal copy of the state, safe to
// publish as a read-only snapshot while the next tick mutates the
// original (spec.md §5 snapshot strategy).
func (g *GameState) Clone() *GameState {
	out := *g
	out.Zones = cloneZoneMap(g.Zones)
	out.ProbesByZone = cloneNestedIntMap(g.ProbesByZone)
	out.ProbeAllocationsByZone = cloneAllocationMap(g.ProbeAllocationsByZone)
	out.ZoneMassLimits = cloneMassLimitMap(g.ZoneMassLimits)
	out.StructuresByZone = cloneNestedIntMap(g.StructuresByZone)
	out.ConstructionProgress = cloneFloatMap(g.ConstructionProgress)
	out.ConstructionTargets = cloneFloatMap(g.ConstructionTargets)
	out.ConstructionStartTimes = cloneFloatMap(g.ConstructionStartTimes)
	out.EnabledConstruction = append([]string(nil), g.EnabledConstruction...)
	out.ActiveTransfers = cloneTransfers(g.ActiveTransfers)
	out.Tech = cloneTechState(g.Tech)
	out.UpgradeFactors = cloneFloatMap(g.UpgradeFactors)
	out.TechUpgradeFactors = cloneFloatMap(g.TechUpgradeFactors)
	out.Rates.MetalMiningByZone = cloneFloatMap(g.Rates.MetalMiningByZone)
	out.Derived.ZoneTotalMass = cloneFloatMap(g.Derived.ZoneTotalMass)
	out.Derived.ProbeCount = cloneIntMap(g.Derived.ProbeCount)
	out.Derived.CategoryFactors = cloneFloatMap(g.Derived.CategoryFactors)
	out.Derived.TransferCapacityGTPerDay = cloneFloatMap(g.Derived.TransferCapacityGTPerDay)
	out.Derived.TransferPositions = cloneTransferPositions(g.Derived.TransferPositions)
	out.SkillBonuses = cloneFloatMap(g.SkillBonuses)
	out.CumulativeStats = cloneFloatMap(g.CumulativeStats)
	out.StatsHistory = append([]StatsSample(nil), g.StatsHistory...)
	return &out
}

func cloneZoneMap(m map[string]*Zone) map[string]*Zone {
	out := make(map[string]*Zone, len(m))
	for k, v := range m {
		z := *v
		out[k] = &z
	}
	return out
}

func cloneNestedIntMap(m map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(m))
	for k, v := range m {
		out[k] = cloneIntMap(v)
	}
	return out
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneAllocationMap(m map[string]Allocation) map[string]Allocation {
	out := make(map[string]Allocation, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneMassLimitMap(m map[string]MassLimits) map[string]MassLimits {
	out := make(map[string]MassLimits, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneTransfers(ts []*Transfer) []*Transfer {
	out := make([]*Transfer, len(ts))
	for i, t := range ts {
		c := *t
		c.InTransit = append([]Batch(nil), t.InTransit...)
		out[i] = &c
	}
	return out
}

func cloneTransferPositions(m map[string][]float64) map[string][]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string][]float64, len(m))
	for k, v := range m {
		out[k] = append([]float64(nil), v...)
	}
	return out
}

func cloneTechState(s *techtree.State) *techtree.State {
	if s == nil {
		return nil
	}
	out := &techtree.State{Trees: make(map[string]*techtree.TreeState, len(s.Trees))}
	for id, tree := range s.Trees {
		ct := &techtree.TreeState{TreeID: tree.TreeID, Tiers: make([]*techtree.TierState, len(tree.Tiers))}
		for i, tier := range tree.Tiers {
			tc := *tier
			ct.Tiers[i] = &tc
		}
		out.Trees[id] = ct
	}
	return out
}
