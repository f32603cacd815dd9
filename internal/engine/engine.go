// Package engine drives the fixed-order tick scheduler (spec.md §4.14)
// that owns every mutable piece of simulation state and advances them in
// lockstep: climate, ecology, perception, diplomacy/intel/espionage,
// legacy/death, class promotion, and event fanout.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/diplomacy"
	"github.com/meerski/arakh/internal/ecosystem"
	"github.com/meerski/arakh/internal/espionage"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/intel"
	"github.com/meerski/arakh/internal/legacy"
	"github.com/meerski/arakh/internal/logging"
	"github.com/meerski/arakh/internal/perception"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
	"github.com/meerski/arakh/internal/trust"
)

// State is the engine's run state, mirrored on the teacher's
// ecosystem.RunnerState enum.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateError    State = "error"
)

const (
	politicsCadenceTicks  = 10
	evolutionCadenceTicks = 500
)

// InboxAction is one pending agent action awaiting processing at step 5.
type InboxAction struct {
	CharacterID ids.CharacterId
	Action      perception.Action
}

// Hooks are the pluggable pieces of the tick pipeline spec.md §4.14 names
// but does not define the internals of elsewhere in the spec: politics and
// evolution's periodic cadence, the connected-owner broadcast fanout, and
// the checkpoint writer. All default to no-ops; wiring them is the
// responsibility of the session and snapshot layers.
type Hooks struct {
	PoliticsTick        func(tick uint64)
	EvolutionTick       func(tick uint64)
	PerceptionBroadcast func(ownerID ids.OwnerId, ctx perception.ActionContext)
	Broadcast           func(events []Event)
	Checkpoint          func(tick uint64)
}

// Config is the input to New.
type Config struct {
	World               *region.World
	Species             *species.Registry
	Characters          *character.Registry
	FamilyTrees         *character.FamilyTreeRegistry
	FoodWeb             *ecosystem.FoodWeb
	Intel               *intel.Registry
	Trust               *trust.Ledger
	Espionage           *espionage.Registry
	Heartland           *espionage.HeartlandTracker
	Diplomacy           *diplomacy.Registry
	Cards               *legacy.CardRegistry
	MainCharacters      *legacy.MainCharacterManager
	RNG                 *rand.Rand
	TickInterval        time.Duration
	SnapshotEveryTicks  uint64
	MissionResolutionFn func(espionage.Mission) espionage.ResolutionInputs
	Hooks               Hooks
}

// Engine is the tick scheduler. It owns no goroutine of its own until
// Start is called; Step can drive it synchronously for tests and CLI
// tools.
type Engine struct {
	cfg Config

	mu    sync.Mutex
	state State

	inbox chan InboxAction

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	tickCount uint64
}

// New returns an idle engine wired to cfg's registries.
func New(cfg Config) *Engine {
	if cfg.RNG == nil {
		cfg.RNG = rand.New(rand.NewSource(1))
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.MissionResolutionFn == nil {
		cfg.MissionResolutionFn = func(espionage.Mission) espionage.ResolutionInputs { return espionage.ResolutionInputs{} }
	}
	return &Engine{
		cfg:   cfg,
		state: StateIdle,
		inbox: make(chan InboxAction, 256),
	}
}

// Submit enqueues an agent action for processing at the next tick's
// step 5. Non-blocking; returns false if the inbox is full.
func (e *Engine) Submit(action InboxAction) bool {
	select {
	case e.inbox <- action:
		return true
	default:
		return false
	}
}

// State returns the engine's current run state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// TickCount returns the number of ticks processed so far.
func (e *Engine) TickCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickCount
}

// Start spawns the background tick loop at cfg.TickInterval, grounded on
// the teacher's SimulationRunner.runLoop: a ticker-driven select loop with
// panic recovery that flips the engine to StateError rather than crashing
// the process.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return nil
	}
	e.state = StateRunning
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.mu.Unlock()

	e.wg.Add(1)
	go e.runLoop()
	return nil
}

// Stop signals the tick loop to exit and waits for it to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	e.state = StateStopping
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()
}

func (e *Engine) runLoop() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logging.LogError(context.Background(), fmt.Errorf("recovered from panic: %v", r), "engine tick loop panicked", nil)
			e.mu.Lock()
			e.state = StateError
			e.mu.Unlock()
		}
	}()

	interval := e.cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.Step(1); err != nil {
				logging.LogError(context.Background(), err, "tick failed", nil)
				e.mu.Lock()
				e.state = StateError
				e.mu.Unlock()
				return
			}
		}
	}
}

// Step synchronously advances the engine by n ticks and returns the
// events generated by the last one. Used by tests and offline tools that
// don't want the background ticker.
func (e *Engine) Step(n int) ([]Event, error) {
	var last []Event
	for i := 0; i < n; i++ {
		events, err := e.tick()
		if err != nil {
			return last, err
		}
		last = events
	}
	return last, nil
}
