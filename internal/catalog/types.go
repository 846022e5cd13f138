// Package catalog holds the read-only tables the simulation core is
// configured from at startup: orbital zones, buildings, research
// trees, and the global economic-rule constants. Nothing in this
// package mutates after New returns; it is safe to share a *Catalog
// across goroutines without synchronization.
package catalog

// Zone is one orbital band: a planet, belt, or the Dyson zone.
type Zone struct {
	ID                    string  `json:"id"`
	RadiusAU              float64 `json:"radius_au"`
	TotalMassKG           float64 `json:"total_mass_kg"`
	MetalPercentage       float64 `json:"metal_percentage"`
	SolarIrradianceFactor float64 `json:"solar_irradiance_factor"`
	MiningMultiplier      float64 `json:"mining_multiplier"`
	IsDyson               bool    `json:"is_dyson"`
}

// Building is a structure type buildable in any zone.
type Building struct {
	ID                     string             `json:"id"`
	PowerOutputMW          float64            `json:"power_output_mw"`
	BasePowerConsumptionMW float64            `json:"base_power_consumption_mw"`
	EnergyCostMultiplier   float64            `json:"energy_cost_multiplier"`
	MiningRateMultiplier   float64            `json:"mining_rate_multiplier"`
	BuildRateMultiplier    float64            `json:"build_rate_multiplier"`
	UsesSolar              bool               `json:"uses_solar"`
	IsMassDriver           bool               `json:"is_mass_driver"`
	ExtractionBonus        float64            `json:"extraction_bonus"`
	StructureCostFactor    float64            `json:"structure_cost_factor"`
	OrbitalEfficiency      map[string]float64 `json:"orbital_efficiency"`
	// Effects carries legacy "effects.*_per_day" rates for buildings
	// that predate the explicit *_rate_multiplier fields.
	Effects map[string]float64 `json:"effects"`
}

// OrbitalEfficiencyFor returns the building's efficiency in zoneID,
// defaulting to 1 when the zone has no explicit override.
func (b Building) OrbitalEfficiencyFor(zoneID string) float64 {
	if b.OrbitalEfficiency == nil {
		return 1
	}
	if v, ok := b.OrbitalEfficiency[zoneID]; ok {
		return v
	}
	return 1
}

// ResearchTier is one tier of a research tree.
type ResearchTier struct {
	ID                 string  `json:"id"`
	Tranches           int     `json:"tranches"`
	TierMultiplier     float64 `json:"tier_multiplier"`
	TierCostEflopsDays float64 `json:"tier_cost_eflops_days"`
}

// CombinationRule selects which of the two Production Calculator
// formulas a research tree's category factor is rolled up with.
type CombinationRule string

const (
	WeightedSum          CombinationRule = "weighted_sum"
	GeometricExponential CombinationRule = "geometric_exponential"
)

// ResearchTree is one named skill tree (e.g. "probe_mining",
// "energy_generation", "autonomy").
type ResearchTree struct {
	ID              string           `json:"id"`
	Category        string           `json:"category"` // dexterity | intelligence | energy
	CombinationRule CombinationRule  `json:"combination_rule"`
	SkillCoeff      float64          `json:"skill_coefficient"`
	Tiers           []ResearchTier   `json:"tiers"`
}

// AlphaFactor is the (performance, cost) exponent pair used by the
// geometric-exponential formula.
type AlphaFactor struct {
	Perf float64 `json:"perf"`
	Cost float64 `json:"cost"`
}

// CrowdingConfig parameterizes the zone-crowding penalty and the
// probe-count scaling penalty (§4.4).
type CrowdingConfig struct {
	ThresholdRatio float64            `json:"threshold_ratio"`
	DecayRate      float64            `json:"decay_rate"`
	Exponents      map[string]float64 `json:"exponents"`
}

// Exponent returns the beta scaling exponent for rateKind, defaulting
// to 1 when no schedule entry exists (Open Question #2 in spec.md §9).
func (c CrowdingConfig) Exponent(rateKind string) float64 {
	if c.Exponents == nil {
		return 1
	}
	if v, ok := c.Exponents[rateKind]; ok {
		return v
	}
	return 1
}

// ProbeBaseRates are the base per-probe kg/day rates from spec.md §4.4.
type ProbeBaseRates struct {
	MiningKgPerDay float64 `json:"mining_kg_per_day"`
	BuildKgPerDay  float64 `json:"build_kg_per_day"`
	ProbeMassKg    float64 `json:"probe_mass_kg"`
}

// EconomicRules is the global tuning-constant table.
type EconomicRules struct {
	AlphaFactors      map[string]AlphaFactor `json:"alpha_factors"`
	AlphaCostScaling  float64                `json:"alpha_cost_scaling"`
	ProbeBaseRates    ProbeBaseRates         `json:"probe_base_rates"`
	SkillCoefficients map[string]float64     `json:"skill_coefficients"`
	Crowding          CrowdingConfig         `json:"crowding"`
	GeometricScaling  map[string]float64     `json:"geometric_scaling_exponents"`
	MetalDysonRatio   float64                `json:"metal_dyson_ratio"`

	// Energy balance base wattages (§4.5). The source material never
	// pins these to one number; they are exposed as catalog constants
	// rather than hardcoded so a collaborator can retune them per
	// scenario.
	BaseProbeProductionW float64 `json:"base_probe_production_w"`
	BaseMiningW          float64 `json:"base_mining_w"`
	BaseRecycleSlagW     float64 `json:"base_recycle_slag_w"`
	BaseStructureCostW   float64 `json:"base_structure_cost_w"`
}

// GeometricScalingExponent returns gamma for a structure kind
// ("mining", "building", "energy"), defaulting per spec.md §4.4.
func (e EconomicRules) GeometricScalingExponent(kind string) float64 {
	if v, ok := e.GeometricScaling[kind]; ok {
		return v
	}
	if kind == "energy" {
		return 3.2
	}
	return 2.1
}

// DeltaVEntry is one from/to zone pair's transfer physics, consumed
// by the Transfer System's Hohmann-time calculation.
type DeltaVEntry struct {
	FromZone      string  `json:"from_zone"`
	ToZone        string  `json:"to_zone"`
	DeltaVKmS     float64 `json:"delta_v_km_s"`
	NominalDays   float64 `json:"nominal_transfer_days"`
}
