package preferences

import (
	"countdown/internal/core/model"
	"countdown/internal/input"
)

const (
	minVolume = 0.0
	maxVolume = 1.0
)

// Settings defines editable user preferences.
type Settings struct {
	Duration       int
	AlertThreshold int

	AlertSound  string
	AlertVolume float64

	StartFullscreen bool
	HistoryEnabled  bool

	Keys map[string]string
}

// DefaultSettings returns default settings for Countdown.
func DefaultSettings() Settings {
	return Settings{
		Duration:        model.DefaultDuration,
		AlertThreshold:  model.DefaultAlertThreshold,
		AlertVolume:     0.8,
		StartFullscreen: false,
		HistoryEnabled:  true,
		Keys:            input.DefaultKeymap().Bindings(),
	}
}

// CountdownConfig converts settings to the engine configuration.
func (settings Settings) CountdownConfig() model.CountdownConfig {
	return model.CountdownConfig{
		Duration:       settings.Duration,
		AlertThreshold: settings.AlertThreshold,
	}.Normalize()
}

// WithTiming returns settings with the given duration and alert threshold.
// A non-positive value keeps the current one. The pair is rejected when the
// threshold could never be reached while counting down.
func (settings Settings) WithTiming(duration, threshold int) (Settings, bool) {
	if duration > 0 {
		settings.Duration = duration
	}
	if threshold > 0 {
		settings.AlertThreshold = threshold
	}
	config := model.CountdownConfig{Duration: settings.Duration, AlertThreshold: settings.AlertThreshold}
	return settings, config.Valid()
}

// Keymap builds the keyboard bindings, falling back to defaults for
// unparseable entries.
func (settings Settings) Keymap() (input.Keymap, error) {
	return input.FromBindings(settings.Keys)
}

// ValidVolume reports whether volume is within the accepted range.
func ValidVolume(volume float64) bool {
	return volume >= minVolume && volume <= maxVolume
}
