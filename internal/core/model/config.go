package model

const (
	// DefaultDuration is the countdown length of a fresh cycle, in seconds.
	DefaultDuration = 30
	// DefaultAlertThreshold is the remaining value that raises the near-expiry alert.
	DefaultAlertThreshold = 10
	// MinDuration leaves room for at least one tick above the alert threshold.
	MinDuration = 2
)

// CountdownConfig contains runtime settings for the countdown state machine.
// The extension amount always equals Duration.
type CountdownConfig struct {
	Duration       int
	AlertThreshold int
}

// DefaultCountdownConfig returns the stock 30 second countdown.
func DefaultCountdownConfig() CountdownConfig {
	return CountdownConfig{
		Duration:       DefaultDuration,
		AlertThreshold: DefaultAlertThreshold,
	}
}

// Valid reports whether the alert threshold is reachable while counting down
// from Duration.
func (config CountdownConfig) Valid() bool {
	return config.Duration >= MinDuration &&
		config.AlertThreshold > 0 &&
		config.AlertThreshold < config.Duration
}

// Normalize replaces out-of-range values. The threshold is kept strictly
// below Duration, falling back to the default or to Duration-1.
func (config CountdownConfig) Normalize() CountdownConfig {
	if config.Duration < MinDuration {
		config.Duration = DefaultDuration
	}
	if config.AlertThreshold <= 0 {
		config.AlertThreshold = DefaultAlertThreshold
	}
	if config.AlertThreshold >= config.Duration {
		if DefaultAlertThreshold < config.Duration {
			config.AlertThreshold = DefaultAlertThreshold
		} else {
			config.AlertThreshold = config.Duration - 1
		}
	}
	return config
}

// Extension returns the seconds added by a single extension.
func (config CountdownConfig) Extension() int {
	return config.Duration
}

// MaxRemaining returns the upper bound of the remaining value in one cycle.
func (config CountdownConfig) MaxRemaining() int {
	return config.Duration + config.Extension()
}
