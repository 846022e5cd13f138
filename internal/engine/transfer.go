package engine

import (
	"math"
)

// TransferKind is the tagged-union discriminant for the four transfer
// shapes spec.md §4.8 allows. Do not collapse one-time and continuous
// transfers into a single amount+rate struct: a one-time transfer has
// no ongoing rate and a continuous transfer has no fixed amount, and
// conflating them invites a rate of zero silently meaning "done" for
// one-time transfers.
type TransferKind string

const (
	OneTimeProbe     TransferKind = "one_time_probe"
	OneTimeMetal     TransferKind = "one_time_metal"
	ContinuousProbe  TransferKind = "continuous_probe"
	ContinuousMetal  TransferKind = "continuous_metal"
)

// TransferStatus is a transfer's lifecycle state.
type TransferStatus string

const (
	TransferTraveling TransferStatus = "traveling"
	TransferPaused    TransferStatus = "paused"
	TransferCompleted TransferStatus = "completed"
)

// Batch is one discrete shipment in flight along a transfer's route,
// used by both one-time transfers (a single batch) and continuous
// transfers (a batch queue; a tick adds an entry only once the
// accumulator has reached the minimum batch size).
type Batch struct {
	Amount        float64 `json:"amount"`
	DepartureTime float64 `json:"departure_time"`
	ArrivalTime   float64 `json:"arrival_time"`
}

// Transfer is one route between two zones carrying either probes or
// metal, one-time or continuous (spec.md §4.8).
type Transfer struct {
	ID       string       `json:"id"`
	Kind     TransferKind `json:"kind"`
	FromZone string       `json:"from_zone"`
	ToZone   string       `json:"to_zone"`
	Status   TransferStatus `json:"status"`

	DeltaVCostKmS float64 `json:"delta_v_cost_km_s"`
	TransferDays  float64 `json:"transfer_days"`

	ProbeType string `json:"probe_type,omitempty"`

	// ProbeCount / MetalKG are the requested total for a one-time
	// transfer; they do not change once the transfer is created.
	ProbeCount int     `json:"probe_count,omitempty"`
	MetalKG    float64 `json:"metal_kg,omitempty"`

	// RatePerDay is the continuous transfer's rate, mutable via
	// update_transfer_rate: for a probe transfer, the percentage
	// (0-100) of the source zone's current probe count sent per day;
	// for a metal transfer, the kg/day throughput.
	RatePerDay float64 `json:"rate_per_day,omitempty"`

	InTransit []Batch `json:"in_transit"`

	// Accumulator holds fractional units not yet large enough to form
	// a batch (§4.8, §9 "floating-point accumulators, not integers").
	Accumulator float64 `json:"accumulator"`

	// Delivered accumulates arrived amount for observability; it does
	// not gate completion for continuous transfers (those run until
	// paused or deleted).
	Delivered float64 `json:"delivered"`
}

// IsContinuous reports whether the transfer is an ongoing throughput
// route rather than a single fixed shipment.
func (t *Transfer) IsContinuous() bool {
	return t.Kind == ContinuousProbe || t.Kind == ContinuousMetal
}

// IsProbeTransfer reports whether the transfer moves probe units
// (discrete) rather than a metal mass (continuous quantity).
func (t *Transfer) IsProbeTransfer() bool {
	return t.Kind == OneTimeProbe || t.Kind == ContinuousProbe
}

// Position linearly interpolates a batch's fraction of the route
// traveled at time t, clamped to [0,1] (spec.md §4.8 "transit
// position" observable).
func (b Batch) Position(t float64) float64 {
	span := b.ArrivalTime - b.DepartureTime
	if span <= 0 {
		return 1
	}
	frac := (t - b.DepartureTime) / span
	return math.Max(0, math.Min(1, frac))
}
