package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInvariantsPassesOnFreshState(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)

	assert.NoError(t, CheckInvariants(cat, g))
}

func TestCheckInvariantsCatchesNegativeMass(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.Zones["earth"].StoredMetal = -1

	err := CheckInvariants(cat, g)
	require.Error(t, err)
	assert.IsType(t, &InvariantError{}, err)
}

func TestCheckInvariantsCatchesMissingDepletedFlag(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.Zones["earth"].MassRemaining = 0
	g.Zones["earth"].Depleted = false

	assert.Error(t, CheckInvariants(cat, g), "zero mass_remaining without depleted=true should violate the invariant")
}

func TestCheckInvariantsCatchesAllocationSumOverOne(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.ProbeAllocationsByZone["earth"] = Allocation{Harvest: 0.8, Replicate: 0.8}

	assert.Error(t, CheckInvariants(cat, g), "allocation sum 1.6 exceeds 1")
}

func TestCheckInvariantsCatchesDysonProgressOutOfRange(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.Dyson.Progress = 1.5

	assert.Error(t, CheckInvariants(cat, g), "dyson progress 1.5 is outside [0,1]")
}

func TestCheckInvariantsCatchesThrottleBelowFloor(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.Rates.EnergyThrottle = 0.01

	assert.Error(t, CheckInvariants(cat, g), "throttle 0.01 is below the 0.05 floor")
}

func TestCheckInvariantsCatchesArrivalBeforeDeparture(t *testing.T) {
	cat := newTestCatalog(t)
	g := newTestState(t, cat)
	g.ActiveTransfers = []*Transfer{{
		ID: "t1", InTransit: []Batch{{Amount: 1, DepartureTime: 10, ArrivalTime: 5}},
	}}

	assert.Error(t, CheckInvariants(cat, g), "a batch's arrival time must not precede its departure time")
}
