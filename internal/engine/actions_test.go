package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySetZoneAllocationRejectsUnknownZone(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{
		ID: "a1", Kind: ActionSetZoneAllocation,
		Payload: map[string]any{"zone_id": "nowhere", "harvest": 1.0},
	})
	assert.False(t, res.Success)
	assert.IsType(t, &CatalogMissError{}, res.Err)
}

func TestApplySetZoneAllocationRejectsSumAboveOne(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{
		ID: "a1", Kind: ActionSetZoneAllocation,
		Payload: map[string]any{"zone_id": "earth", "harvest": 0.7, "replicate": 0.5},
	})
	assert.False(t, res.Success, "allocation sum 1.2 exceeds 1")
	assert.Zero(t, g.ProbeAllocationsByZone["earth"].Sum(), "a rejected action must not mutate state")
}

func TestApplySetZoneAllocationAcceptsValidSplit(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{
		ID: "a1", Kind: ActionSetZoneAllocation,
		Payload: map[string]any{"zone_id": "earth", "harvest": 0.4, "replicate": 0.3, "recycle": 0.1},
	})
	require.True(t, res.Success, "ApplyAction: %v", res.Err)

	got := g.ProbeAllocationsByZone["earth"]
	assert.Equal(t, 0.4, got.Harvest)
	assert.Equal(t, 0.3, got.Replicate)
	assert.Equal(t, 0.1, got.Recycle)
}

func TestApplySetZoneMassLimitRejectsOutOfRange(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{
		ID: "a1", Kind: ActionSetZoneMassLimit,
		Payload: map[string]any{"zone_id": "earth", "replicate": 1.5},
	})
	assert.False(t, res.Success, "mass limit 1.5 is out of [0,1]")
}

func TestEnableDisableEnableTierIsIdempotentWithPlainEnable(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{ID: "e", Kind: ActionEnableTier, Payload: map[string]any{"tree_id": "probe_mining", "tier_id": "t1"}})
	require.True(t, res.Success, "ApplyAction: %v", res.Err)
	wantEnabled := g.Tech.Trees["probe_mining"].Tiers[0].Enabled

	g2 := newTestState(t, cat)
	apply := func(kind ActionKind) ActionResult {
		return ApplyAction(cat, g2, Action{ID: "x", Kind: kind, Payload: map[string]any{"tree_id": "probe_mining", "tier_id": "t1"}})
	}
	apply(ActionEnableTier)
	apply(ActionDisableTier)
	apply(ActionEnableTier)

	assert.Equal(t, wantEnabled, g2.Tech.Trees["probe_mining"].Tiers[0].Enabled,
		"enable;disable;enable should equal a single enable")
}

func TestApplyEnableTierRejectsUnknownTier(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{ID: "a1", Kind: ActionEnableTier, Payload: map[string]any{"tree_id": "probe_mining", "tier_id": "t99"}})
	assert.False(t, res.Success, "enabling a tier the catalog doesn't define should fail")
}

func TestApplyEnableConstructionAddsToQueueOnce(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	var buildingID string
	for id := range cat.Buildings {
		buildingID = id
		break
	}

	for i := 0; i < 2; i++ {
		res := ApplyAction(cat, g, Action{
			ID: "a1", Kind: ActionEnableConstruction,
			Payload: map[string]any{"zone_id": "earth", "building_id": buildingID},
		})
		require.True(t, res.Success, "ApplyAction: %v", res.Err)
	}
	assert.Len(t, g.EnabledConstruction, 1, "enabling the same construction twice should not duplicate the queue entry")
}

func TestApplySetDysonPowerAllocationValidatesRange(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{ID: "a1", Kind: ActionSetDysonPowerAllocation, Payload: map[string]any{"allocation": 1.5}})
	assert.False(t, res.Success, "allocation 1.5 is out of [0,1]")

	res = ApplyAction(cat, g, Action{ID: "a2", Kind: ActionSetDysonPowerAllocation, Payload: map[string]any{"allocation": 0.25}})
	require.True(t, res.Success, "ApplyAction: %v", res.Err)
	assert.Equal(t, 0.25, g.DysonPowerAllocation)
}

func TestApplyUnknownActionKindFails(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	res := ApplyAction(cat, g, Action{ID: "a1", Kind: ActionKind("not_a_real_kind")})
	assert.False(t, res.Success)
}
