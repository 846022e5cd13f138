package engine

import (
	"github.com/google/uuid"

	"github.com/anderote/dysonforge/internal/catalog"
)

// ActionKind enumerates the action kinds named in spec.md §6.
type ActionKind string

const (
	ActionSetZoneAllocation      ActionKind = "set_zone_allocation"
	ActionSetZoneMassLimit       ActionKind = "set_zone_mass_limit"
	ActionEnableTier             ActionKind = "enable_tier"
	ActionDisableTier            ActionKind = "disable_tier"
	ActionEnableConstruction     ActionKind = "enable_construction"
	ActionDisableConstruction    ActionKind = "disable_construction"
	ActionCreateTransfer         ActionKind = "create_transfer"
	ActionPauseTransfer          ActionKind = "pause_transfer"
	ActionDeleteTransfer         ActionKind = "delete_transfer"
	ActionUpdateTransferRate     ActionKind = "update_transfer_rate"
	ActionSetDysonPowerAllocation ActionKind = "set_dyson_power_allocation"
)

// Action is one inbound command message (spec.md §6): `action(action_id, kind, payload)`.
type Action struct {
	ID      string
	Kind    ActionKind
	Payload map[string]any
}

// ActionResult is the outbound `action_complete` event payload.
type ActionResult struct {
	ActionID string
	Success  bool
	Result   map[string]any
	Err      error
}

func ok(actionID string, result map[string]any) ActionResult {
	return ActionResult{ActionID: actionID, Success: true, Result: result}
}

func fail(actionID string, err error) ActionResult {
	return ActionResult{ActionID: actionID, Success: false, Err: err}
}

// ApplyAction validates and applies one action between ticks (spec.md
// §4.10, §5: actions either fully apply or fail atomically). Every
// branch validates before mutating so a failure never leaves a partial
// change.
func ApplyAction(cat *catalog.Catalog, g *GameState, a Action) ActionResult {
	switch a.Kind {
	case ActionSetZoneAllocation:
		return applySetZoneAllocation(cat, g, a)
	case ActionSetZoneMassLimit:
		return applySetZoneMassLimit(cat, g, a)
	case ActionEnableTier:
		return applyEnableTier(g, a)
	case ActionDisableTier:
		return applyDisableTier(g, a)
	case ActionEnableConstruction:
		return applyEnableConstruction(cat, g, a)
	case ActionDisableConstruction:
		return applyDisableConstruction(g, a)
	case ActionCreateTransfer:
		return applyCreateTransfer(cat, g, a)
	case ActionPauseTransfer:
		return applyPauseTransfer(g, a)
	case ActionDeleteTransfer:
		return applyDeleteTransfer(g, a)
	case ActionUpdateTransferRate:
		return applyUpdateTransferRate(g, a)
	case ActionSetDysonPowerAllocation:
		return applySetDysonPowerAllocation(g, a)
	default:
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "kind", Reason: "unknown action kind"})
	}
}

func payloadString(a Action, field string) (string, bool) {
	v, ok := a.Payload[field].(string)
	return v, ok
}

func payloadFloat(a Action, field string) (float64, bool) {
	switch v := a.Payload[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func payloadInt(a Action, field string) (int, bool) {
	switch v := a.Payload[field].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func applySetZoneAllocation(cat *catalog.Catalog, g *GameState, a Action) ActionResult {
	zoneID, ok1 := payloadString(a, "zone_id")
	if !ok1 {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "zone_id", Reason: "missing"})
	}
	if _, ok := cat.GetZone(zoneID); !ok {
		return fail(a.ID, &CatalogMissError{Kind: "zone", ID: zoneID})
	}
	alloc := Allocation{}
	alloc.Harvest, _ = payloadFloat(a, "harvest")
	alloc.Replicate, _ = payloadFloat(a, "replicate")
	alloc.Recycle, _ = payloadFloat(a, "recycle")
	alloc.Dyson, _ = payloadFloat(a, "dyson")
	alloc.Construct, _ = payloadFloat(a, "construct")
	for _, v := range []float64{alloc.Harvest, alloc.Replicate, alloc.Recycle, alloc.Dyson, alloc.Construct} {
		if v < 0 || v > 1 {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "allocation", Reason: "fraction out of [0,1]"})
		}
	}
	if alloc.Sum() > 1.0000001 {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "allocation", Reason: "sum exceeds 1"})
	}
	g.ProbeAllocationsByZone[zoneID] = alloc
	return ok(a.ID, nil)
}

func applySetZoneMassLimit(cat *catalog.Catalog, g *GameState, a Action) ActionResult {
	zoneID, ok1 := payloadString(a, "zone_id")
	if !ok1 {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "zone_id", Reason: "missing"})
	}
	if _, ok := cat.GetZone(zoneID); !ok {
		return fail(a.ID, &CatalogMissError{Kind: "zone", ID: zoneID})
	}
	limits := MassLimits{}
	limits.Replicate, _ = payloadFloat(a, "replicate")
	limits.Construct, _ = payloadFloat(a, "construct")
	limits.RecycleProbes, _ = payloadFloat(a, "recycle_probes")
	for _, v := range []float64{limits.Replicate, limits.Construct, limits.RecycleProbes} {
		if v < 0 || v > 1 {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "mass_limit", Reason: "fraction out of [0,1]"})
		}
	}
	g.ZoneMassLimits[zoneID] = limits
	return ok(a.ID, nil)
}

func applyEnableTier(g *GameState, a Action) ActionResult {
	treeID, _ := payloadString(a, "tree_id")
	tierID, _ := payloadString(a, "tier_id")
	if !g.Tech.EnableTier(catalog.CanonicalSkill(treeID), tierID) {
		return fail(a.ID, &CatalogMissError{Kind: "tier", ID: treeID + "/" + tierID})
	}
	return ok(a.ID, nil)
}

func applyDisableTier(g *GameState, a Action) ActionResult {
	treeID, _ := payloadString(a, "tree_id")
	tierID, _ := payloadString(a, "tier_id")
	if !g.Tech.DisableTier(catalog.CanonicalSkill(treeID), tierID) {
		return fail(a.ID, &CatalogMissError{Kind: "tier", ID: treeID + "/" + tierID})
	}
	return ok(a.ID, nil)
}

func applyEnableConstruction(cat *catalog.Catalog, g *GameState, a Action) ActionResult {
	zoneID, _ := payloadString(a, "zone_id")
	buildingID, _ := payloadString(a, "building_id")
	if _, ok := cat.GetZone(zoneID); !ok {
		return fail(a.ID, &CatalogMissError{Kind: "zone", ID: zoneID})
	}
	building, ok := cat.GetBuilding(buildingID)
	if !ok {
		return fail(a.ID, &CatalogMissError{Kind: "building", ID: buildingID})
	}
	key := zoneID + "::" + buildingID
	for _, existing := range g.EnabledConstruction {
		if existing == key {
			return ok(a.ID, nil)
		}
	}
	g.EnabledConstruction = append(g.EnabledConstruction, key)
	if g.ConstructionTargets[key] == 0 {
		target, _ := payloadFloat(a, "target_kg")
		if target <= 0 {
			target = building.StructureCostFactor * 1000
			if target <= 0 {
				target = 1000
			}
		}
		g.ConstructionTargets[key] = target
		g.ConstructionStartTimes[key] = g.Time
	}
	return ok(a.ID, nil)
}

func applyDisableConstruction(g *GameState, a Action) ActionResult {
	zoneID, _ := payloadString(a, "zone_id")
	buildingID, _ := payloadString(a, "building_id")
	key := zoneID + "::" + buildingID
	out := g.EnabledConstruction[:0]
	for _, existing := range g.EnabledConstruction {
		if existing != key {
			out = append(out, existing)
		}
	}
	g.EnabledConstruction = out
	return ok(a.ID, nil)
}

func applyCreateTransfer(cat *catalog.Catalog, g *GameState, a Action) ActionResult {
	kindRaw, _ := payloadString(a, "kind")
	fromZone, _ := payloadString(a, "from_zone")
	toZone, _ := payloadString(a, "to_zone")
	if _, ok := cat.GetZone(fromZone); !ok {
		return fail(a.ID, &CatalogMissError{Kind: "zone", ID: fromZone})
	}
	if _, ok := cat.GetZone(toZone); !ok {
		return fail(a.ID, &CatalogMissError{Kind: "zone", ID: toZone})
	}
	if _, ok := cat.DeltaV(fromZone, toZone); !ok {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "to_zone", Reason: "no transfer route in catalog"})
	}

	kind := TransferKind(kindRaw)
	t := &Transfer{
		ID:       uuid.NewString(),
		Kind:     kind,
		FromZone: fromZone,
		ToZone:   toZone,
		Status:   TransferTraveling,
	}

	if kind == OneTimeMetal || kind == ContinuousMetal {
		if cat.MassDriverCount(g.StructuresByZone[fromZone]) < 1 {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "from_zone", Reason: "metal transfers require a mass driver in the source zone"})
		}
	}

	recomputeTransferTime(cat, g, t)
	if t.TransferDays <= 0 {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "transfer_time", Reason: "non-positive transfer time"})
	}

	switch kind {
	case OneTimeProbe:
		count, _ := payloadInt(a, "probe_count")
		if count <= 0 {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "probe_count", Reason: "must be positive"})
		}
		if g.ProbesByZone[fromZone]["probe"] < count {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "probe_count", Reason: "insufficient probes at source"})
		}
		t.ProbeCount = count
		zone := g.Zones[fromZone]
		g.ProbesByZone[fromZone]["probe"] -= count
		zone.ProbeMass -= float64(count) * 100
		t.InTransit = []Batch{{Amount: float64(count), DepartureTime: g.Time, ArrivalTime: g.Time + t.TransferDays}}

	case OneTimeMetal:
		kg, _ := payloadFloat(a, "metal_kg")
		if kg <= 0 {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "metal_kg", Reason: "must be positive"})
		}
		zone := g.Zones[fromZone]
		if zone.StoredMetal < kg {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "metal_kg", Reason: "insufficient stored metal at source"})
		}
		t.MetalKG = kg
		zone.StoredMetal -= kg
		t.InTransit = []Batch{{Amount: kg, DepartureTime: g.Time, ArrivalTime: g.Time + t.TransferDays}}

	case ContinuousProbe:
		pct, _ := payloadFloat(a, "rate_percentage")
		if pct < 0 || pct > 100 {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "rate_percentage", Reason: "must be in [0,100]"})
		}
		t.RatePerDay = pct

	case ContinuousMetal:
		rate, _ := payloadFloat(a, "metal_rate_kg_per_day")
		if rate < 0 {
			return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "metal_rate_kg_per_day", Reason: "must be non-negative"})
		}
		t.RatePerDay = rate

	default:
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "kind", Reason: "unknown transfer kind"})
	}

	g.ActiveTransfers = append(g.ActiveTransfers, t)
	return ok(a.ID, map[string]any{"transfer_id": t.ID})
}

func applyPauseTransfer(g *GameState, a Action) ActionResult {
	transferID, _ := payloadString(a, "transfer_id")
	for _, t := range g.ActiveTransfers {
		if t.ID == transferID {
			if t.Status == TransferPaused {
				t.Status = TransferTraveling
			} else {
				t.Status = TransferPaused
			}
			return ok(a.ID, map[string]any{"status": string(t.Status)})
		}
	}
	return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "transfer_id", Reason: "no such transfer"})
}

func applyDeleteTransfer(g *GameState, a Action) ActionResult {
	transferID, _ := payloadString(a, "transfer_id")
	if !deleteTransfer(g, transferID) {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "transfer_id", Reason: "no such transfer"})
	}
	return ok(a.ID, nil)
}

func applyUpdateTransferRate(g *GameState, a Action) ActionResult {
	transferID, _ := payloadString(a, "transfer_id")
	rate, okRate := payloadFloat(a, "rate")
	if !okRate || rate < 0 {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "rate", Reason: "must be non-negative"})
	}
	for _, t := range g.ActiveTransfers {
		if t.ID == transferID {
			if !t.IsContinuous() {
				return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "transfer_id", Reason: "not a continuous transfer"})
			}
			t.RatePerDay = rate
			return ok(a.ID, nil)
		}
	}
	return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "transfer_id", Reason: "no such transfer"})
}

func applySetDysonPowerAllocation(g *GameState, a Action) ActionResult {
	alloc, okAlloc := payloadFloat(a, "allocation")
	if !okAlloc || alloc < 0 || alloc > 1 {
		return fail(a.ID, &ValidationError{Action: string(a.Kind), Field: "allocation", Reason: "must be in [0,1]"})
	}
	g.DysonPowerAllocation = alloc
	return ok(a.ID, nil)
}
