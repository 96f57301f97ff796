package countdown

import "time"

// Status represents the current countdown mode.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	// StatusExpired is transient: the engine passes through it and settles
	// in StatusIdle within the same tick.
	StatusExpired Status = "expired"
)

// EventType defines the type of engine notification.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventTick         EventType = "tick"
	EventAlertTrigger EventType = "alert_trigger"
	EventAlertStop    EventType = "alert_stop"
	EventExtended     EventType = "extended"
	EventExpired      EventType = "expired"
	EventReset        EventType = "reset"
)

// Snapshot is a consistent read of the engine state.
type Snapshot struct {
	Remaining      int
	Status         Status
	ExtensionUsed  bool
	AlertThreshold int
	Extension      int
}

// CanStart reports whether start would have an effect.
func (snapshot Snapshot) CanStart() bool {
	return snapshot.Status != StatusRunning
}

// CanPause reports whether pause would have an effect.
func (snapshot Snapshot) CanPause() bool {
	return snapshot.Status == StatusRunning
}

// CanExtend reports whether the extension gate is still open.
func (snapshot Snapshot) CanExtend() bool {
	return !snapshot.ExtensionUsed
}

// Critical reports whether the remaining time is within the alert window.
func (snapshot Snapshot) Critical() bool {
	return snapshot.Remaining <= snapshot.AlertThreshold
}

// Event represents an engine update for observers.
type Event struct {
	Type     EventType
	State    Snapshot
	Previous Status
	// Rewind is set on alert_stop when the cue must restart from the beginning.
	Rewind bool
	At     time.Time
}
