package engine

import (
	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/techtree"
)

// NewGameState builds the initial authoritative state for a fresh
// session (spec.md §3 lifecycle, §6 config): every catalog zone gets
// an entry up front, initialized from its catalog total mass (a zone
// with no mass starts flagged depleted), and the default zone is
// seeded with the configured starting metal and probes. Zones are not
// created lazily here; EnsureZone only adds IDs not yet present.
func NewGameState(cat *catalog.Catalog, cfg Config) *GameState {
	g := &GameState{
		Speed:                  1,
		Zones:                  map[string]*Zone{},
		ProbesByZone:           map[string]map[string]int{},
		ProbeAllocationsByZone: map[string]Allocation{},
		ZoneMassLimits:         map[string]MassLimits{},
		StructuresByZone:       map[string]map[string]int{},
		ConstructionProgress:   map[string]float64{},
		ConstructionTargets:    map[string]float64{},
		ConstructionStartTimes: map[string]float64{},
		EnabledConstruction:    []string{},
		Dyson:                  DysonSphere{TargetMass: cfg.DysonTargetMassKG},
		ActiveTransfers:        []*Transfer{},
		Tech:                   techtree.NewState(cat),
		UpgradeFactors:         map[string]float64{},
		TechUpgradeFactors:     map[string]float64{},
		Rates:                  Rates{MetalMiningByZone: map[string]float64{}},
		Derived:                Derived{ZoneTotalMass: map[string]float64{}, ProbeCount: map[string]int{}},
		CumulativeStats:        map[string]float64{},
		StatsHistory:           []StatsSample{},
		BaseEnergyProduction:   cfg.BaseEnergyProductionMW * 1e6,
		SkillBonuses:           cloneFloatMap(cfg.SkillBonuses),
		DysonPowerAllocation:   0,
	}

	for zoneID, z := range cat.Zones {
		g.Zones[zoneID] = &Zone{MassRemaining: z.TotalMassKG, Depleted: z.TotalMassKG <= 0}
		g.ProbeAllocationsByZone[zoneID] = Allocation{}
		g.ZoneMassLimits[zoneID] = MassLimits{Replicate: 0.3, Construct: 0.3, RecycleProbes: 0.3}
	}

	defaultZone := cfg.DefaultZone
	if defaultZone == "" {
		defaultZone = "earth"
	}
	zone := g.EnsureZone(defaultZone, zoneTotalMassOrZero(cat, defaultZone))
	zone.StoredMetal += cfg.InitialMetalKG
	if cfg.InitialProbes > 0 {
		g.ProbesByZone[defaultZone] = map[string]int{"probe": cfg.InitialProbes}
		zone.ProbeMass += float64(cfg.InitialProbes) * 100
	}

	return g
}

func zoneTotalMassOrZero(cat *catalog.Catalog, zoneID string) float64 {
	if z, ok := cat.GetZone(zoneID); ok {
		return z.TotalMassKG
	}
	return 0
}
