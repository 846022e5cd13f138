package catalog

import "testing"

func TestDefaultLoadsAllTables(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if len(cat.Zones) == 0 {
		t.Errorf("expected at least one zone")
	}
	if len(cat.Buildings) == 0 {
		t.Errorf("expected at least one building")
	}
	if len(cat.ResearchTrees) == 0 {
		t.Errorf("expected at least one research tree")
	}
	if _, ok := cat.GetZone("earth"); !ok {
		t.Errorf("expected the default catalog to define an earth zone")
	}
	if _, ok := cat.GetZone("no-such-zone"); ok {
		t.Errorf("GetZone() should report false for an unknown zone")
	}
}

func TestDefaultCatalogHasExactlyOneDysonZone(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	count := 0
	for _, z := range cat.Zones {
		if z.IsDyson {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one Dyson zone, found %d", count)
	}
}

func TestCanonicalSkillResolvesAliases(t *testing.T) {
	if got := CanonicalSkill("energy_collection"); got != "solar_pv" {
		t.Errorf("CanonicalSkill(energy_collection) = %q, want solar_pv", got)
	}
	if got := CanonicalSkill("unknown_skill"); got != "unknown_skill" {
		t.Errorf("CanonicalSkill() should pass unknown names through unchanged, got %q", got)
	}
}

func TestNewCanonicalizesResearchTreeIDs(t *testing.T) {
	trees := []ResearchTree{{ID: "robotic", Category: "dexterity", CombinationRule: WeightedSum, SkillCoeff: 1}}
	econ := EconomicRules{SkillCoefficients: map[string]float64{"robotic": 1}}
	cat := New(nil, nil, trees, econ, nil)
	if _, ok := cat.GetTree("robotic"); !ok {
		t.Errorf("GetTree() should resolve the alias before looking up")
	}
	if _, ok := cat.ResearchTrees["robotic"]; ok {
		t.Errorf("the catalog should only store the canonical tree id, not the alias")
	}
	if _, ok := cat.ResearchTrees["manipulation"]; !ok {
		t.Errorf("expected the tree to be stored under its canonical id manipulation")
	}
}

func TestDeltaVLookupIsDirectional(t *testing.T) {
	deltaV := []DeltaVEntry{{FromZone: "earth", ToZone: "mars", DeltaVKmS: 5.6, NominalDays: 260}}
	cat := New(nil, nil, nil, EconomicRules{}, deltaV)
	if _, ok := cat.DeltaV("earth", "mars"); !ok {
		t.Errorf("expected a route from earth to mars")
	}
	if _, ok := cat.DeltaV("mars", "earth"); ok {
		t.Errorf("DeltaV should not synthesize the reverse route automatically")
	}
}

func TestMassDriverCountOnlyCountsMassDrivers(t *testing.T) {
	buildings := []Building{
		{ID: "mass_driver", IsMassDriver: true},
		{ID: "factory"},
	}
	cat := New(nil, buildings, nil, EconomicRules{}, nil)
	structures := map[string]int{"mass_driver": 3, "factory": 5}
	if n := cat.MassDriverCount(structures); n != 3 {
		t.Errorf("MassDriverCount() = %d, want 3", n)
	}
}

func TestAlphaFactorFallsBackToGlobalCostScaling(t *testing.T) {
	econ := EconomicRules{AlphaCostScaling: 0.2}
	cat := New(nil, nil, nil, econ, nil)
	a := cat.AlphaFactor("unconfigured")
	if a.Perf != 1 {
		t.Errorf("fallback AlphaFactor().Perf = %v, want 1", a.Perf)
	}
	want := (1 + 0.2) / 2
	if a.Cost != want {
		t.Errorf("fallback AlphaFactor().Cost = %v, want %v", a.Cost, want)
	}
}
