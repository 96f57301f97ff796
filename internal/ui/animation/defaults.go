package animation

import "time"

// DefaultConfig returns the alert flash cadence.
func DefaultConfig() Config {
	return Config{
		OnDuration:  400 * time.Millisecond,
		OffDuration: 300 * time.Millisecond,
	}
}
