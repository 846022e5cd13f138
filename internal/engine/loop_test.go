package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat := newTestCatalog(t)
	return NewEngine(cat, DefaultConfig(), nil)
}

func TestTickAdvancesTimeAndTickCounter(t *testing.T) {
	eng := newTestEngine(t)
	snap, _, err := eng.Tick()
	require.NoError(t, err)

	assert.EqualValues(t, 1, snap.Tick)
	assert.InDelta(t, 1.0/60.0, snap.Time, 1e-9)
}

func TestZeroProbesZeroEnergyProducesNoStateChange(t *testing.T) {
	// Boundary behavior (spec.md §8): starting with zero probes and
	// zero base energy, no state change across any number of ticks.
	cat := newTestCatalog(t)
	cfg := DefaultConfig()
	cfg.InitialProbes = 0
	cfg.BaseEnergyProductionMW = 0
	eng := NewEngine(cat, cfg, nil)

	var last *GameState
	for i := 0; i < 10; i++ {
		snap, _, err := eng.Tick()
		require.NoError(t, err)
		last = snap
	}
	for zoneID, z := range last.Zones {
		assert.Zero(t, z.StoredMetal, "zone %s accumulated metal with zero probes", zoneID)
		assert.Zero(t, z.ProbeMass, "zone %s accumulated probe mass with zero probes", zoneID)
		assert.Zero(t, z.SlagMass, "zone %s accumulated slag with zero probes", zoneID)
	}
	assert.Zero(t, last.Dyson.Mass, "Dyson mass should stay at 0 with no probes to build it")
}

func TestHighSpeedTickProducesLargerDeltaTimeButStaysValid(t *testing.T) {
	cat := newTestCatalog(t)
	eng := NewEngine(cat, DefaultConfig(), nil)
	require.NoError(t, eng.SetTimeSpeed(1000))

	snap, _, err := eng.Tick()
	require.NoError(t, err)
	assert.InDelta(t, 1000.0/60.0, snap.Time, 1e-9)
	assert.NoError(t, CheckInvariants(cat, snap))
}

func TestSetTimeSpeedRejectsOutOfRange(t *testing.T) {
	eng := newTestEngine(t)
	assert.Error(t, eng.SetTimeSpeed(0.01))
	assert.Error(t, eng.SetTimeSpeed(5000))
}

func TestStopRefusesFurtherActionsAndTicks(t *testing.T) {
	eng := newTestEngine(t)
	eng.Stop()

	err := eng.Enqueue(context.Background(), Action{ID: "a1", Kind: ActionSetDysonPowerAllocation, Payload: map[string]any{"allocation": 0.5}})
	assert.Error(t, err, "Enqueue should fail after Stop")

	_, _, err = eng.Tick()
	assert.Error(t, err, "Tick should fail after Stop")
}

func TestEnqueuedActionsApplyAtNextTickBoundary(t *testing.T) {
	eng := newTestEngine(t)
	err := eng.Enqueue(context.Background(), Action{
		ID:      "a1",
		Kind:    ActionSetZoneAllocation,
		Payload: map[string]any{"zone_id": "earth", "harvest": 1.0},
	})
	require.NoError(t, err)

	snap, results, err := eng.Tick()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, "ApplyAction: %v", results[0].Err)
	assert.Equal(t, 1.0, snap.ProbeAllocationsByZone["earth"].Harvest)
}

func TestSnapshotIsIndependentOfSubsequentTicks(t *testing.T) {
	eng := newTestEngine(t)
	first, _, err := eng.Tick()
	require.NoError(t, err)
	firstTick := first.Tick

	_, _, err = eng.Tick()
	require.NoError(t, err)

	assert.Equal(t, firstTick, first.Tick, "a previously published snapshot must not change after a later tick")
}

func TestChainHashAdvancesEachTick(t *testing.T) {
	eng := newTestEngine(t)
	first, _, err := eng.Tick()
	require.NoError(t, err)
	second, _, err := eng.Tick()
	require.NoError(t, err)

	require.NotEmpty(t, first.ChainHash)
	require.NotEmpty(t, second.ChainHash)
	assert.NotEqual(t, first.ChainHash, second.ChainHash, "chain hash should advance between distinct ticks")
}
