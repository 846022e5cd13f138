package engine

import (
	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/techtree"
)

// refreshUpgradeFactors is step 2 of the Engine Loop (§4.10): recompute
// every research tree's performance and cost upgrade factors from
// current tier progress and write them into the per-tick caches. Each
// tree is treated as self-referential (its own skill value feeds its
// own combination rule); multi-skill trees are not present in the
// shipped catalog, so this keeps the common case simple without
// losing the two-combination-rule dispatch.
func refreshUpgradeFactors(cat *catalog.Catalog, g *GameState) {
	for treeID, tree := range cat.ResearchTrees {
		skillVal := techtree.SkillValue(cat, g.Tech, treeID, 1.0)
		skills := map[string]float64{treeID: skillVal}
		g.UpgradeFactors[treeID] = techtree.UpgradeFactor(cat, tree, skills, false)
		g.TechUpgradeFactors[treeID] = techtree.UpgradeFactor(cat, tree, skills, true)
	}
}

// upgradeFactor reads a cached performance upgrade factor, defaulting
// to 1 (no bonus, no penalty) for a tree the catalog doesn't define.
func upgradeFactor(g *GameState, treeID string) float64 {
	if v, ok := g.UpgradeFactors[catalog.CanonicalSkill(treeID)]; ok && v > 0 {
		return v
	}
	return 1
}

// skillBonus reads one of the seven start-time skill bonuses of
// spec.md §6 (engine/config.go's Config.SkillBonuses, copied into
// GameState.SkillBonuses at NewGameState). Missing keys default to 0,
// meaning "no bonus" — callers apply it as a (1 + bonus) multiplier
// alongside the tech-tree's own upgradeFactor.
func skillBonus(g *GameState, key string) float64 {
	return g.SkillBonuses[key]
}

// skillValue reads a tree's current skill value given a baseline,
// defaulting to the baseline itself when the catalog has no such tree.
func skillValue(cat *catalog.Catalog, g *GameState, treeID string, base float64) float64 {
	return techtree.SkillValue(cat, g.Tech, treeID, base)
}

// categoryFactors rolls up the three research categories (dexterity,
// intelligence, energy) as the geometric mean of their member trees'
// performance factors (§4.3); surfaced as an observability rollup in
// state.Derived rather than consumed directly by any production
// formula, none of which reference a category factor by name.
func categoryFactors(cat *catalog.Catalog, g *GameState) map[string]float64 {
	out := make(map[string]float64, 3)
	for _, category := range []string{"dexterity", "intelligence", "energy"} {
		out[category] = techtree.CategoryFactor(cat, g.Tech, category, g.UpgradeFactors)
	}
	return out
}
