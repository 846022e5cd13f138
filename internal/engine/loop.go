package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/techtree"
)

// errStopped is returned when an action or tick is attempted after
// Stop (spec.md §5 cancellation: "refuses further actions").
var errStopped = errors.New("engine stopped")

// Engine owns the single authoritative GameState and drives the
// per-tick pipeline of §4.10. It is single-threaded-cooperative
// (§5): Tick and Enqueue may be called from different goroutines, but
// only one Tick runs at a time and actions are drained at the start
// of the next tick, never mid-tick.
type Engine struct {
	cat *catalog.Catalog
	cfg Config

	mu       sync.Mutex
	state    *GameState
	actions  []Action
	stopped  bool
	lastHash string

	limiter *actionLimiter
}

// NewEngine constructs an Engine from an injected catalog and config,
// starting from a fresh GameState unless initial is provided (spec.md
// §6 `start(session_id, config, initial_state?)`).
func NewEngine(cat *catalog.Catalog, cfg Config, initial *GameState) *Engine {
	state := initial
	if state == nil {
		state = NewGameState(cat, cfg)
	} else if state.Tech != nil {
		techtree.ReconcileOnLoad(state.Tech, cat)
	}
	return &Engine{
		cat:     cat,
		cfg:     cfg,
		state:   state,
		limiter: newActionLimiter(cfg.ActionQueuePerSecond, cfg.ActionQueueBurst),
	}
}

// Enqueue places an action on the FIFO queue, applied at the start of
// the next tick (spec.md §5). It blocks briefly under the action-rate
// limiter and refuses once the engine has been stopped.
func (e *Engine) Enqueue(ctx context.Context, a Action) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return &RuntimeError{Op: "enqueue", Err: errStopped}
	}
	e.actions = append(e.actions, a)
	return nil
}

// Stop refuses further actions and further ticks; any tick already in
// progress (there is at most one, since Tick holds the engine lock for
// its duration) completes normally.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
}

// SetTimeSpeed changes Δt starting from the next tick (§4.1).
func (e *Engine) SetTimeSpeed(speed float64) error {
	if speed < 0.1 || speed > 1000 {
		return &ValidationError{Action: "set_time_speed", Field: "speed", Reason: "out of [0.1, 1000]"}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Speed = speed
	return nil
}

// Snapshot returns the current committed state's clone without
// advancing time; safe to call concurrently with Tick.
func (e *Engine) Snapshot() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Tick drains the pending action queue, runs exactly one pipeline
// pass (§4.10 steps 1-9), and returns the published snapshot (step
// 10). An InvariantError is fatal: the engine stops and the prior
// committed state is returned unchanged alongside the error.
func (e *Engine) Tick() (*GameState, []ActionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return e.state.Clone(), nil, &RuntimeError{Op: "tick", Err: errStopped}
	}

	prior := e.state.Clone()
	results := make([]ActionResult, 0, len(e.actions))
	for _, a := range e.actions {
		results = append(results, ApplyAction(e.cat, e.state, a))
	}
	e.actions = e.actions[:0]

	g := e.state
	dt := (1.0 / 60.0) * g.Speed
	g.Time += dt
	g.Tick++

	refreshUpgradeFactors(e.cat, g)
	theta := energyBalance(e.cat, g)
	runMining(e.cat, g, theta, dt)
	runProbeReplication(e.cat, g, theta, dt)
	runConstruction(e.cat, g, theta, dt)
	runTransfers(e.cat, g, dt, g.Time)
	runDyson(e.cat, g, theta, dt)
	runResearch(e.cat, g, dt)
	rollupDerived(e.cat, g, e.cfg.StatsSampleEveryNTicks)
	g.Derived.CategoryFactors = categoryFactors(e.cat, g)

	if err := CheckInvariants(e.cat, g); err != nil {
		e.stopped = true
		e.state = prior
		return prior.Clone(), results, err
	}

	snap := snapshot(g, e.lastHash, HashableBytes)
	e.lastHash = snap.ChainHash
	return snap, results, nil
}

// HashableBytes is the canonical byte representation of a committed
// tick used to extend the tamper-evident hash chain (internal/core).
// It is exported so a persistence sidecar can independently re-derive
// and verify the same chain from stored snapshots rather than trusting
// the stored ChainHash field blindly.
func HashableBytes(g *GameState) []byte {
	b, err := json.Marshal(struct {
		Tick  uint64  `json:"tick"`
		Time  float64 `json:"time"`
		Zones map[string]*Zone `json:"zones"`
		Dyson DysonSphere `json:"dyson"`
	}{Tick: g.Tick, Time: g.Time, Zones: g.Zones, Dyson: g.Dyson})
	if err != nil {
		return []byte(err.Error())
	}
	return b
}
