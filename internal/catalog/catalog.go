package catalog

import "fmt"

// Catalog is the full set of read-only tables injected at engine
// start. It is assembled once from catalog files (§6) and never
// mutated afterward.
type Catalog struct {
	Zones         map[string]Zone
	Buildings     map[string]Building
	ResearchTrees map[string]ResearchTree
	Economic      EconomicRules
	TransferDeltaV map[string]DeltaVEntry
}

// deltaVKey builds the lookup key for a from/to zone pair.
func deltaVKey(from, to string) string {
	return from + "->" + to
}

// New assembles a Catalog from loaded definitions, normalizing skill
// aliases (§9 Design Notes) as it goes.
func New(zones []Zone, buildings []Building, trees []ResearchTree, econ EconomicRules, deltaV []DeltaVEntry) *Catalog {
	c := &Catalog{
		Zones:          make(map[string]Zone, len(zones)),
		Buildings:      make(map[string]Building, len(buildings)),
		ResearchTrees:  make(map[string]ResearchTree, len(trees)),
		Economic:       econ,
		TransferDeltaV: make(map[string]DeltaVEntry, len(deltaV)),
	}
	for _, z := range zones {
		c.Zones[z.ID] = z
	}
	for _, b := range buildings {
		c.Buildings[b.ID] = b
	}
	for _, t := range trees {
		t.ID = CanonicalSkill(t.ID)
		c.ResearchTrees[t.ID] = t
	}
	c.Economic.SkillCoefficients = normalizeSkillMap(econ.SkillCoefficients)
	for _, d := range deltaV {
		c.TransferDeltaV[deltaVKey(d.FromZone, d.ToZone)] = d
	}
	return c
}

func normalizeSkillMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[CanonicalSkill(k)] = v
	}
	return out
}

// GetZone returns the zone with id, or false if the catalog has none
// (spec.md §4.2: getZone(id) returns None for unknown IDs).
func (c *Catalog) GetZone(id string) (Zone, bool) {
	z, ok := c.Zones[id]
	return z, ok
}

// GetBuilding returns the building definition for id.
func (c *Catalog) GetBuilding(id string) (Building, bool) {
	b, ok := c.Buildings[id]
	return b, ok
}

// GetTree returns the research tree for id (canonicalized first).
func (c *Catalog) GetTree(id string) (ResearchTree, bool) {
	t, ok := c.ResearchTrees[CanonicalSkill(id)]
	return t, ok
}

// DeltaV returns the transfer physics entry for a from/to zone pair.
func (c *Catalog) DeltaV(from, to string) (DeltaVEntry, bool) {
	d, ok := c.TransferDeltaV[deltaVKey(from, to)]
	return d, ok
}

// AlphaFactor returns the (perf, cost) exponent pair configured for a
// production category, falling back to the global cost-scaling alpha
// averaged with perf when no explicit cost alpha is set.
func (c *Catalog) AlphaFactor(category string) AlphaFactor {
	if a, ok := c.Economic.AlphaFactors[category]; ok {
		if a.Cost == 0 {
			a.Cost = (a.Perf + c.Economic.AlphaCostScaling) / 2
		}
		return a
	}
	return AlphaFactor{Perf: 1, Cost: (1 + c.Economic.AlphaCostScaling) / 2}
}

// MassDriverCount reports how many mass-driver buildings are present
// for the given zone's structure counts.
func (c *Catalog) MassDriverCount(structures map[string]int) int {
	n := 0
	for id, count := range structures {
		if b, ok := c.Buildings[id]; ok && b.IsMassDriver {
			n += count
		}
	}
	return n
}

func (c *Catalog) String() string {
	return fmt.Sprintf("Catalog{zones=%d buildings=%d trees=%d}", len(c.Zones), len(c.Buildings), len(c.ResearchTrees))
}
