package countdown

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"countdown/internal/core/model"
)

// TickInterval is the fixed cadence of the countdown.
const TickInterval = time.Second

const (
	transitionStart  = "start"
	transitionPause  = "pause"
	transitionStop   = "stop"
	transitionExpire = "expire"
	transitionRearm  = "rearm"
)

// Engine is the countdown state machine. Commands and ticks are serialized
// by a single mutex; a tick armed before a pause, stop or expiry is dropped.
type Engine struct {
	mu            sync.Mutex
	config        model.CountdownConfig
	pending       *model.CountdownConfig
	clock         Clock
	machine       *fsm.FSM
	remaining     int
	extensionUsed bool
	alertFired    bool
	timer         Timer
	generation    uint64
	events        []chan Event
	closed        bool
}

// New creates an idle Engine. A nil clock selects SystemClock.
func New(config model.CountdownConfig, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	config = config.Normalize()

	engine := &Engine{
		config:    config,
		clock:     clock,
		remaining: config.Duration,
	}
	engine.machine = fsm.NewFSM(
		string(StatusIdle),
		fsm.Events{
			{Name: transitionStart, Src: []string{string(StatusIdle), string(StatusPaused)}, Dst: string(StatusRunning)},
			{Name: transitionPause, Src: []string{string(StatusRunning)}, Dst: string(StatusPaused)},
			{Name: transitionStop, Src: []string{string(StatusIdle), string(StatusRunning), string(StatusPaused), string(StatusExpired)}, Dst: string(StatusIdle)},
			{Name: transitionExpire, Src: []string{string(StatusRunning)}, Dst: string(StatusExpired)},
			{Name: transitionRearm, Src: []string{string(StatusExpired)}, Dst: string(StatusIdle)},
		},
		fsm.Callbacks{},
	)
	return engine
}

// Subscribe registers a new observer channel. Delivery never blocks the
// engine: an event is dropped for a subscriber whose buffer is full, so
// observers that fold events across a cycle need a generous buffer.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Snapshot returns the current state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Remaining returns the seconds left in the current cycle.
func (engine *Engine) Remaining() int {
	return engine.Snapshot().Remaining
}

// Status returns the machine state.
func (engine *Engine) Status() Status {
	return engine.Snapshot().Status
}

// ExtensionUsed reports whether the extension gate is closed.
func (engine *Engine) ExtensionUsed() bool {
	return engine.Snapshot().ExtensionUsed
}

// Config returns the configuration in effect for the current cycle.
func (engine *Engine) Config() model.CountdownConfig {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config
}

// Start begins or resumes counting down.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}

	previous := engine.statusLocked()
	if !engine.transitionLocked(transitionStart) {
		return
	}
	engine.scheduleLocked()
	engine.emitLocked(Event{Type: EventStateChange, Previous: previous})
}

// Pause freezes the countdown and silences the alert cue.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}

	if !engine.transitionLocked(transitionPause) {
		return
	}
	engine.cancelLocked()
	engine.emitLocked(Event{Type: EventStateChange, Previous: StatusRunning})
	engine.emitLocked(Event{Type: EventAlertStop})
}

// Stop cancels the countdown and resets the cycle from any state.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}

	previous := engine.statusLocked()
	engine.cancelLocked()
	engine.transitionLocked(transitionStop)
	engine.resetCycleLocked()
	if previous != StatusIdle {
		engine.emitLocked(Event{Type: EventStateChange, Previous: previous})
	}
	engine.emitLocked(Event{Type: EventReset, Previous: previous})
	engine.emitLocked(Event{Type: EventAlertStop, Rewind: true})
}

// Extend adds one default duration to the remaining time, once per cycle.
func (engine *Engine) Extend() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.extensionUsed {
		return
	}

	engine.remaining += engine.config.Extension()
	engine.extensionUsed = true
	engine.emitLocked(Event{Type: EventExtended})
	engine.emitLocked(Event{Type: EventAlertStop, Rewind: true})
}

// UpdateConfig replaces the configuration. It applies immediately when the
// engine is idle with a fresh cycle, otherwise at the next reset.
func (engine *Engine) UpdateConfig(config model.CountdownConfig) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	config = config.Normalize()
	if engine.statusLocked() == StatusIdle && !engine.extensionUsed {
		engine.config = config
		engine.pending = nil
		engine.remaining = config.Duration
		engine.emitLocked(Event{Type: EventReset, Previous: StatusIdle})
		return
	}
	engine.pending = &config
}

// Close cancels the schedule and closes all observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.cancelLocked()
	engine.closed = true
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || generation != engine.generation || engine.statusLocked() != StatusRunning {
		return
	}
	engine.timer = nil

	if engine.remaining > 0 {
		engine.remaining--
	}
	if engine.remaining == 0 {
		engine.expireLocked()
		return
	}

	engine.emitLocked(Event{Type: EventTick})
	if engine.remaining == engine.config.AlertThreshold && !engine.alertFired {
		engine.alertFired = true
		engine.emitLocked(Event{Type: EventAlertTrigger})
	}
	engine.scheduleLocked()
}

func (engine *Engine) expireLocked() {
	engine.cancelLocked()
	engine.transitionLocked(transitionExpire)
	engine.emitLocked(Event{Type: EventExpired, Previous: StatusRunning})

	engine.transitionLocked(transitionRearm)
	engine.resetCycleLocked()
	engine.emitLocked(Event{Type: EventStateChange, Previous: StatusExpired})
}

func (engine *Engine) resetCycleLocked() {
	if engine.pending != nil {
		engine.config = *engine.pending
		engine.pending = nil
	}
	engine.remaining = engine.config.Duration
	engine.extensionUsed = false
	engine.alertFired = false
}

func (engine *Engine) scheduleLocked() {
	engine.generation++
	generation := engine.generation
	engine.timer = engine.clock.AfterFunc(TickInterval, func() {
		engine.tick(generation)
	})
}

func (engine *Engine) cancelLocked() {
	engine.generation++
	if engine.timer != nil {
		engine.timer.Stop()
		engine.timer = nil
	}
}

func (engine *Engine) transitionLocked(name string) bool {
	if !engine.machine.Can(name) {
		return false
	}
	err := engine.machine.Event(context.Background(), name)
	if err == nil {
		return true
	}
	var unchanged fsm.NoTransitionError
	return errors.As(err, &unchanged)
}

func (engine *Engine) statusLocked() Status {
	return Status(engine.machine.Current())
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Remaining:      engine.remaining,
		Status:         engine.statusLocked(),
		ExtensionUsed:  engine.extensionUsed,
		AlertThreshold: engine.config.AlertThreshold,
		Extension:      engine.config.Extension(),
	}
}

func (engine *Engine) emitLocked(event Event) {
	event.State = engine.snapshotLocked()
	event.At = engine.clock.Now()
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
