package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains flash timing values.
type Config struct {
	OnDuration  time.Duration
	OffDuration time.Duration
}

// Flasher toggles a highlight on and off until stopped. The highlight is
// always left off when a run ends.
type Flasher struct {
	mu     sync.Mutex
	config Config
	toggle func(on bool)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new flasher.
func New(config Config, toggle func(on bool)) *Flasher {
	defaults := DefaultConfig()
	if config.OnDuration <= 0 {
		config.OnDuration = defaults.OnDuration
	}
	if config.OffDuration <= 0 {
		config.OffDuration = defaults.OffDuration
	}
	return &Flasher{
		config: config,
		toggle: toggle,
	}
}

// Start begins flashing; a running flash is restarted.
func (flasher *Flasher) Start(ctx context.Context) {
	flasher.mu.Lock()
	flasher.stopLocked()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	flasher.cancel = cancel
	flasher.done = done
	flasher.mu.Unlock()

	go flasher.run(runCtx, done)
}

// Stop terminates any active flash and waits for the highlight to clear.
func (flasher *Flasher) Stop() {
	flasher.mu.Lock()
	defer flasher.mu.Unlock()
	flasher.stopLocked()
}

// Active reports whether a flash is running.
func (flasher *Flasher) Active() bool {
	flasher.mu.Lock()
	defer flasher.mu.Unlock()
	if flasher.done == nil {
		return false
	}
	select {
	case <-flasher.done:
		return false
	default:
		return true
	}
}

func (flasher *Flasher) stopLocked() {
	if flasher.cancel == nil {
		return
	}
	flasher.cancel()
	<-flasher.done
	flasher.cancel = nil
	flasher.done = nil
}

func (flasher *Flasher) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer flasher.toggle(false)

	for {
		flasher.toggle(true)
		if !sleepWithContext(ctx, flasher.config.OnDuration) {
			return
		}
		flasher.toggle(false)
		if !sleepWithContext(ctx, flasher.config.OffDuration) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
