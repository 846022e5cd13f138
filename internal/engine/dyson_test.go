package engine

import "testing"

func TestRunDysonConsumesMetalAtConfiguredRatio(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	zone := g.EnsureZone("dyson", 0)
	zone.StoredMetal = 1e9
	g.ProbesByZone["dyson"] = map[string]int{"probe": 4}
	g.ProbeAllocationsByZone["dyson"] = Allocation{Dyson: 1.0}

	runDyson(cat, g, 1.0, 1.0)

	if zone.StoredMetal >= 1e9 {
		t.Errorf("expected the Dyson zone to consume stored metal, still at %v", zone.StoredMetal)
	}
	consumed := 1e9 - zone.StoredMetal
	massAdded := consumed / cat.Economic.MetalDysonRatio
	if !almostEqual(g.Dyson.Mass, massAdded, 1e-6) {
		t.Errorf("Dyson.Mass = %v, want %v (consumed metal / ratio)", g.Dyson.Mass, massAdded)
	}
}

func TestRunDysonProgressClampedToOne(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.Dyson.TargetMass = 100
	g.Dyson.Mass = 1e9 // already far past target from a prior tick

	runDyson(cat, g, 1.0, 1.0)

	if g.Dyson.Progress != 1 {
		t.Errorf("Dyson.Progress = %v, want clamped to 1", g.Dyson.Progress)
	}
}

func TestRunDysonWithoutAllocationAddsNoMass(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	zone := g.EnsureZone("dyson", 0)
	zone.StoredMetal = 1e9
	g.ProbesByZone["dyson"] = map[string]int{"probe": 4}
	g.ProbeAllocationsByZone["dyson"] = Allocation{Dyson: 0}

	runDyson(cat, g, 1.0, 1.0)

	if g.Dyson.Mass != 0 {
		t.Errorf("no Dyson allocation should add no mass, got %v", g.Dyson.Mass)
	}
	if zone.StoredMetal != 1e9 {
		t.Errorf("no Dyson allocation should consume no metal, got %v remaining", zone.StoredMetal)
	}
}

func TestRunDysonSplitsPowerBetweenEconomyAndCompute(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.Dyson.Mass = 1e15
	g.DysonPowerAllocation = 0.25

	runDyson(cat, g, 1.0, 1.0)

	total, _ := dysonTotalPower(cat, g)
	want := 0.25 * total
	if !almostEqual(g.Rates.IntelligenceRate, want, 1e-6) {
		t.Errorf("IntelligenceRate = %v, want %v (25%% of Dyson output)", g.Rates.IntelligenceRate, want)
	}
}
