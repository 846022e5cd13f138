package engine

import (
	"os"
	"strconv"
)

// Config is the engine's boot-time configuration (spec.md §6):
// starting resources, environment-driven overrides, and the default
// zone new probes spawn into.
type Config struct {
	InitialMetalKG         float64            `json:"initial_metal_kg"`
	BaseEnergyProductionMW float64            `json:"base_energy_production_mw"`
	DysonTargetMassKG      float64            `json:"dyson_target_mass_kg"`

	// SkillBonuses seeds the seven starting bonuses of spec.md §6 into
	// the new GameState (engine/new.go); the engine copies it once at
	// start and production systems read it every tick alongside the
	// tech-tree upgrade factors (engine/techfactors.go's skillBonus).
	SkillBonuses           map[string]float64 `json:"skill_bonuses"`
	DefaultZone            string             `json:"default_zone"`
	InitialProbes          int                `json:"initial_probes"`
	StatsSampleEveryNTicks uint64             `json:"stats_sample_every_n_ticks"`
	ActionQueueBurst       int                `json:"action_queue_burst"`
	ActionQueuePerSecond   float64            `json:"action_queue_per_second"`
}

// DefaultConfig matches the defaults implied by the worked example in
// spec.md §8: one probe at Earth, no stockpiled metal, solar-only
// baseline power.
func DefaultConfig() Config {
	return Config{
		InitialMetalKG:         0,
		BaseEnergyProductionMW: 0,
		DysonTargetMassKG:      2e21,
		SkillBonuses:           map[string]float64{},
		DefaultZone:            "earth",
		InitialProbes:          1,
		StatsSampleEveryNTicks: 30,
		ActionQueueBurst:       32,
		ActionQueuePerSecond:   16,
	}
}

// LoadConfigFromEnv overlays DysonForge's DYSONFORGE_* environment
// variables onto base, leaving any unset variable's field untouched.
// This mirrors the teacher's flat-environment boot style rather than
// introducing a config file format the spec never asks for.
func LoadConfigFromEnv(base Config) Config {
	if v, ok := floatEnv("DYSONFORGE_INITIAL_METAL_KG"); ok {
		base.InitialMetalKG = v
	}
	if v, ok := floatEnv("DYSONFORGE_BASE_ENERGY_PRODUCTION_MW"); ok {
		base.BaseEnergyProductionMW = v
	}
	if v, ok := floatEnv("DYSONFORGE_DYSON_TARGET_MASS_KG"); ok {
		base.DysonTargetMassKG = v
	}
	if v, ok := os.LookupEnv("DYSONFORGE_DEFAULT_ZONE"); ok && v != "" {
		base.DefaultZone = v
	}
	if v, ok := intEnv("DYSONFORGE_INITIAL_PROBES"); ok {
		base.InitialProbes = v
	}
	return base
}

func floatEnv(name string) (float64, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intEnv(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
