package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countdown/internal/core/countdown"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	history, err := OpenHistory(filepath.Join(t.TempDir(), historyFileName))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = history.Close()
	})
	return history
}

func stateEvent(status, previous countdown.Status, extended bool, at time.Duration) countdown.Event {
	return countdown.Event{
		Type:     countdown.EventStateChange,
		State:    countdown.Snapshot{Status: status, ExtensionUsed: extended},
		Previous: previous,
		At:       baseTime.Add(at),
	}
}

func typedEvent(eventType countdown.EventType, previous countdown.Status, at time.Duration) countdown.Event {
	return countdown.Event{Type: eventType, Previous: previous, At: baseTime.Add(at)}
}

func TestTrackerExpiredCycle(t *testing.T) {
	var tracker CycleTracker
	events := []countdown.Event{
		stateEvent(countdown.StatusRunning, countdown.StatusIdle, false, 0),
		typedEvent(countdown.EventTick, "", time.Second),
		typedEvent(countdown.EventTick, "", 2*time.Second),
		stateEvent(countdown.StatusPaused, countdown.StatusRunning, false, 2*time.Second),
		stateEvent(countdown.StatusRunning, countdown.StatusPaused, false, 5*time.Second),
		typedEvent(countdown.EventExtended, "", 5*time.Second),
		typedEvent(countdown.EventTick, "", 6*time.Second),
	}
	for _, event := range events {
		_, done := tracker.Observe(event)
		require.False(t, done)
	}

	record, done := tracker.Observe(typedEvent(countdown.EventExpired, countdown.StatusRunning, 7*time.Second))

	require.True(t, done)
	assert.Equal(t, CycleRecord{
		StartedAt:      baseTime,
		EndedAt:        baseTime.Add(7 * time.Second),
		Outcome:        OutcomeExpired,
		Extended:       true,
		Pauses:         1,
		ElapsedSeconds: 4,
	}, record)
}

func TestTrackerStoppedCycle(t *testing.T) {
	var tracker CycleTracker
	tracker.Observe(stateEvent(countdown.StatusRunning, countdown.StatusIdle, true, 0))

	record, done := tracker.Observe(typedEvent(countdown.EventReset, countdown.StatusRunning, 3*time.Second))

	require.True(t, done)
	assert.Equal(t, OutcomeStopped, record.Outcome)
	assert.True(t, record.Extended)
}

func TestTrackerIgnoresIdleReset(t *testing.T) {
	var tracker CycleTracker

	_, done := tracker.Observe(typedEvent(countdown.EventReset, countdown.StatusIdle, 0))
	assert.False(t, done)
	_, done = tracker.Observe(typedEvent(countdown.EventExpired, countdown.StatusRunning, 0))
	assert.False(t, done)
}

func TestHistorySaveRecentSummary(t *testing.T) {
	history := openTestHistory(t)
	ctx := context.Background()

	records := []CycleRecord{
		{StartedAt: baseTime, EndedAt: baseTime.Add(30 * time.Second), Outcome: OutcomeExpired, ElapsedSeconds: 30},
		{StartedAt: baseTime.Add(time.Minute), EndedAt: baseTime.Add(time.Minute + 12*time.Second), Outcome: OutcomeStopped, Extended: true, Pauses: 2, ElapsedSeconds: 12},
		{StartedAt: baseTime.Add(-time.Hour), EndedAt: baseTime.Add(-time.Hour + 30*time.Second), Outcome: OutcomeExpired, ElapsedSeconds: 30},
	}
	for _, record := range records {
		id, err := history.Save(ctx, record)
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	recent, err := history.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, OutcomeStopped, recent[0].Outcome)
	assert.True(t, recent[0].Extended)
	assert.Equal(t, 2, recent[0].Pauses)
	assert.True(t, recent[0].EndedAt.Equal(records[1].EndedAt))
	assert.Equal(t, OutcomeExpired, recent[1].Outcome)

	summary, err := history.Summary(ctx, baseTime)
	require.NoError(t, err)
	assert.Equal(t, Summary{Cycles: 2, Expired: 1, Stopped: 1, Extended: 1}, summary)
}

func TestHistorySummaryEmpty(t *testing.T) {
	history := openTestHistory(t)

	summary, err := history.Summary(context.Background(), baseTime)

	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestHistoryRecordFromEvents(t *testing.T) {
	history := openTestHistory(t)
	events := make(chan countdown.Event, 8)
	events <- stateEvent(countdown.StatusRunning, countdown.StatusIdle, false, 0)
	events <- typedEvent(countdown.EventTick, "", time.Second)
	events <- stateEvent(countdown.StatusIdle, countdown.StatusRunning, false, 2*time.Second)
	events <- typedEvent(countdown.EventReset, countdown.StatusRunning, 2*time.Second)
	close(events)

	var saved []CycleRecord
	history.Record(context.Background(), events, func(record CycleRecord) {
		saved = append(saved, record)
	})

	require.Len(t, saved, 1)
	assert.Positive(t, saved[0].ID)
	assert.Equal(t, OutcomeStopped, saved[0].Outcome)
	assert.Equal(t, 1, saved[0].ElapsedSeconds)

	recent, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
