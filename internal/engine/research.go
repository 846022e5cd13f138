package engine

import "github.com/anderote/dysonforge/internal/catalog"

// runResearch is step 8 of the Engine Loop (§4.3, §4.10): split this
// tick's intelligence production in equal shares across every tree
// with an enabled, incomplete tier, and commit the progress. No
// per-tree weights are applied.
func runResearch(cat *catalog.Catalog, g *GameState, dt float64) {
	delta := g.Rates.IntelligenceRate * dt
	if delta <= 0 || g.Tech == nil {
		return
	}

	eligible := make([]string, 0, len(g.Tech.Trees))
	for treeID, ts := range g.Tech.Trees {
		for _, tier := range ts.Tiers {
			if tier.Enabled && !tier.Completed {
				eligible = append(eligible, treeID)
				break
			}
		}
	}
	if len(eligible) == 0 {
		return
	}

	share := delta / float64(len(eligible))
	for _, treeID := range eligible {
		consumed := g.Tech.AddTierProgress(cat, treeID, share)
		g.CumulativeStats["total_research_flop_days"] += consumed
	}
}
