// Package techtree tracks per-tree, per-tier research progress and
// derives skill values and upgrade factors from it (spec.md §4.3).
// It holds mutable state (tier progress) but no GameState coupling:
// the engine owns when progress is added and when factors are read
// back out.
package techtree

import (
	"math"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/production"
)

// defaultTierMultiplier is spec.md §4.3's default full-tier multiplier
// when a catalog tier entry doesn't override it.
const defaultTierMultiplier = 1.2

// legacyTranchedThreshold is the < 50 EFLOP·days boundary spec.md §9
// uses to decide whether a tier's cost field is already the full-tier
// cost or a legacy per-tranche figure that needs multiplying up.
const legacyTranchedThreshold = 50

// TierState is one tier's progress within a tree.
type TierState struct {
	TierID            string
	Enabled           bool
	Completed         bool
	TranchesCompleted int
	Progress          float64 // accumulated FLOP·days within this tier
}

// TreeState holds every tier's state for one research tree, in
// catalog order.
type TreeState struct {
	TreeID string
	Tiers  []*TierState
}

func (t *TreeState) tier(tierID string) *TierState {
	for _, ts := range t.Tiers {
		if ts.TierID == tierID {
			return ts
		}
	}
	return nil
}

// State is the full research state: one TreeState per tree the
// catalog defines.
type State struct {
	Trees map[string]*TreeState
}

// NewState creates research state for every tree in cat, with each
// tree's first tier enabled (spec.md §3 lifecycle: "research tier
// state is created at catalog load"). Subsequent tiers enable only by
// completion of the prior tier or an explicit enable action.
func NewState(cat *catalog.Catalog) *State {
	s := &State{Trees: make(map[string]*TreeState, len(cat.ResearchTrees))}
	for treeID, tree := range cat.ResearchTrees {
		ts := &TreeState{TreeID: treeID, Tiers: make([]*TierState, 0, len(tree.Tiers))}
		for i, tier := range tree.Tiers {
			ts.Tiers = append(ts.Tiers, &TierState{
				TierID:  tier.ID,
				Enabled: i == 0,
			})
		}
		s.Trees[treeID] = ts
	}
	return s
}

// ReconcileOnLoad applies the Open Question #1 resolution from
// spec.md §9: tiers already marked enabled stay enabled, tiers whose
// tranches_completed has reached the tier's total are marked
// completed, and nothing else is mutated. cat must be the same
// catalog the state's trees were created from.
func ReconcileOnLoad(s *State, cat *catalog.Catalog) {
	for treeID, ts := range s.Trees {
		tree, ok := cat.ResearchTrees[treeID]
		if !ok {
			continue
		}
		for _, tier := range ts.Tiers {
			def := findTierDef(tree, tier.TierID)
			if def == nil {
				continue
			}
			if tier.TranchesCompleted >= def.Tranches {
				tier.Completed = true
				tier.TranchesCompleted = def.Tranches
			}
		}
	}
}

func findTierDef(tree catalog.ResearchTree, tierID string) *catalog.ResearchTier {
	for i := range tree.Tiers {
		if tree.Tiers[i].ID == tierID {
			return &tree.Tiers[i]
		}
	}
	return nil
}

// EnableTier marks a tier enabled. Re-enabling an already-enabled tier
// is a no-op, matching the idempotence property in spec.md §8
// ("enable_tier(T); disable_tier(T); enable_tier(T)" == "enable_tier(T)").
func (s *State) EnableTier(treeID, tierID string) bool {
	ts, ok := s.Trees[treeID]
	if !ok {
		return false
	}
	tier := ts.tier(tierID)
	if tier == nil {
		return false
	}
	tier.Enabled = true
	return true
}

// DisableTier marks a tier disabled; it does not reset progress.
func (s *State) DisableTier(treeID, tierID string) bool {
	ts, ok := s.Trees[treeID]
	if !ok {
		return false
	}
	tier := ts.tier(tierID)
	if tier == nil {
		return false
	}
	tier.Enabled = false
	return true
}

// tierMultiplier returns the catalog's per-tier multiplier, defaulting
// per spec.md §4.3.
func tierMultiplier(def catalog.ResearchTier) float64 {
	if def.TierMultiplier > 0 {
		return def.TierMultiplier
	}
	return defaultTierMultiplier
}

// TierCostFlopDays converts a catalog tier's cost field to FLOP·days,
// applying the legacy per-tranche heuristic from spec.md §9: values
// under the 50 EFLOP·days threshold are treated as per-tranche and
// multiplied by the tranche count before the ×10^18 conversion.
func TierCostFlopDays(def catalog.ResearchTier) float64 {
	eflopsDays := def.TierCostEflopsDays
	if eflopsDays > 0 && eflopsDays < legacyTranchedThreshold {
		eflopsDays *= float64(def.Tranches)
	}
	return eflopsDays * 1e18
}

// SkillValue computes a tree's skill value (spec.md §4.3):
//
//	value = base × Π_tiers multiplier^(tranches_done/tranches_total)
func SkillValue(cat *catalog.Catalog, s *State, treeID string, base float64) float64 {
	tree, ok := cat.ResearchTrees[catalog.CanonicalSkill(treeID)]
	if !ok {
		return base
	}
	ts, ok := s.Trees[tree.ID]
	if !ok {
		return base
	}
	value := base
	for _, def := range tree.Tiers {
		tier := ts.tier(def.ID)
		if tier == nil || def.Tranches <= 0 {
			continue
		}
		frac := float64(tier.TranchesCompleted) / float64(def.Tranches)
		value *= math.Pow(tierMultiplier(def), frac)
	}
	return value
}

// AddTierProgress adds deltaFlopDays of progress to the first
// enabled, non-complete tier of treeID in catalog order. It returns
// the FLOP·days actually consumed (zero if no eligible tier exists;
// any excess past the tier's total cost is not consumed) and
// auto-enables the next tier on completion. A completed tier never
// regresses (spec.md §4.3).
func (s *State) AddTierProgress(cat *catalog.Catalog, treeID string, deltaFlopDays float64) float64 {
	tree, ok := cat.ResearchTrees[catalog.CanonicalSkill(treeID)]
	if !ok {
		return 0
	}
	ts, ok := s.Trees[tree.ID]
	if !ok {
		return 0
	}
	for i, def := range tree.Tiers {
		tier := ts.tier(def.ID)
		if tier == nil || !tier.Enabled || tier.Completed {
			continue
		}
		totalCost := TierCostFlopDays(def)
		before := tier.Progress
		tier.Progress += deltaFlopDays
		if tier.Progress > totalCost {
			tier.Progress = totalCost
		}
		perTranche := totalCost / float64(def.Tranches)
		if perTranche > 0 {
			tier.TranchesCompleted = int(math.Floor(tier.Progress / perTranche))
		}
		if tier.TranchesCompleted > def.Tranches {
			tier.TranchesCompleted = def.Tranches
		}
		if tier.Progress >= totalCost {
			tier.Completed = true
			tier.TranchesCompleted = def.Tranches
			if i+1 < len(tree.Tiers) {
				next := ts.tier(tree.Tiers[i+1].ID)
				if next != nil {
					next.Enabled = true
				}
			}
		}
		return tier.Progress - before
	}
	return 0
}

// CategoryFactor computes the geometric mean of all tree upgrade
// factors belonging to category (dexterity, intelligence, or energy),
// per spec.md §4.3.
func CategoryFactor(cat *catalog.Catalog, s *State, category string, factors map[string]float64) float64 {
	sumLog := 0.0
	n := 0
	for treeID, tree := range cat.ResearchTrees {
		if tree.Category != category {
			continue
		}
		f, ok := factors[treeID]
		if !ok || f <= 0 {
			continue
		}
		sumLog += math.Log(f)
		n++
	}
	if n == 0 {
		return 1
	}
	return math.Exp(sumLog / float64(n))
}

// UpgradeFactor computes the production-category upgrade factor for
// treeID, dispatching to whichever of the two Production Calculator
// combination rules the catalog names for that tree (spec.md §4.4).
// skills maps skill/tree name -> skill value for every skill the
// tree's formula references; for a single-skill tree this is just
// {treeID: SkillValue(...)}.
func UpgradeFactor(cat *catalog.Catalog, tree catalog.ResearchTree, skills map[string]float64, useCost bool) float64 {
	alpha := cat.AlphaFactor(tree.ID)
	a := alpha.Perf
	if useCost {
		a = alpha.Cost
	}
	switch tree.CombinationRule {
	case catalog.GeometricExponential:
		coeffs := map[string]float64{tree.ID: tree.SkillCoeff}
		for name := range skills {
			if name != tree.ID {
				coeffs[name] = cat.Economic.SkillCoefficients[name]
				if coeffs[name] == 0 {
					coeffs[name] = 1
				}
			}
		}
		return production.GeometricExponentialFactor(coeffs, skills, a)
	default:
		weights := map[string]float64{tree.ID: tree.SkillCoeff}
		for name := range skills {
			if name != tree.ID {
				weights[name] = cat.Economic.SkillCoefficients[name]
			}
		}
		return production.WeightedSumFactor(weights, skills)
	}
}
