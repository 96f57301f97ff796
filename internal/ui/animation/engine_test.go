package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toggleLog struct {
	mu     sync.Mutex
	states []bool
}

func (log *toggleLog) record(on bool) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.states = append(log.states, on)
}

func (log *toggleLog) snapshot() []bool {
	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]bool(nil), log.states...)
}

func fastConfig() Config {
	return Config{OnDuration: 2 * time.Millisecond, OffDuration: 2 * time.Millisecond}
}

func TestFlasherTogglesUntilStopped(t *testing.T) {
	log := &toggleLog{}
	flasher := New(fastConfig(), log.record)

	flasher.Start(context.Background())
	require.Eventually(t, func() bool {
		return len(log.snapshot()) >= 4
	}, time.Second, time.Millisecond)
	assert.True(t, flasher.Active())

	flasher.Stop()

	states := log.snapshot()
	assert.True(t, states[0])
	assert.False(t, states[len(states)-1])
	assert.False(t, flasher.Active())

	time.Sleep(10 * time.Millisecond)
	assert.Len(t, log.snapshot(), len(states))
}

func TestFlasherStopsWithContext(t *testing.T) {
	log := &toggleLog{}
	flasher := New(fastConfig(), log.record)
	ctx, cancel := context.WithCancel(context.Background())

	flasher.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return !flasher.Active()
	}, time.Second, time.Millisecond)
	states := log.snapshot()
	assert.False(t, states[len(states)-1])
}

func TestFlasherStopWithoutStart(t *testing.T) {
	flasher := New(Config{}, func(bool) {})

	flasher.Stop()

	assert.False(t, flasher.Active())
	assert.Equal(t, DefaultConfig(), flasher.config)
}

func TestFlasherRestart(t *testing.T) {
	log := &toggleLog{}
	flasher := New(fastConfig(), log.record)

	flasher.Start(context.Background())
	flasher.Start(context.Background())
	assert.True(t, flasher.Active())

	flasher.Stop()
	assert.False(t, flasher.Active())
}
