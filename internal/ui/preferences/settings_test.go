package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countdown/internal/input"
)

func TestDefaultSettingsConfig(t *testing.T) {
	config := DefaultSettings().CountdownConfig()

	assert.Equal(t, 30, config.Duration)
	assert.Equal(t, 10, config.AlertThreshold)
}

func TestCountdownConfigNormalizes(t *testing.T) {
	settings := DefaultSettings()
	settings.Duration = 0

	assert.Equal(t, 30, settings.CountdownConfig().Duration)
}

func TestSettingsKeymap(t *testing.T) {
	keymap, err := DefaultSettings().Keymap()
	require.NoError(t, err)
	assert.Equal(t, input.DefaultKeymap(), keymap)
}

func TestValidVolume(t *testing.T) {
	assert.True(t, ValidVolume(0))
	assert.True(t, ValidVolume(1))
	assert.False(t, ValidVolume(1.2))
	assert.False(t, ValidVolume(-0.1))
}

func TestWithTimingAcceptsReachableThreshold(t *testing.T) {
	settings, ok := DefaultSettings().WithTiming(12, 4)

	require.True(t, ok)
	assert.Equal(t, 12, settings.Duration)
	assert.Equal(t, 4, settings.AlertThreshold)
}

func TestWithTimingKeepsCurrentForMissingValues(t *testing.T) {
	settings, ok := DefaultSettings().WithTiming(0, 5)

	require.True(t, ok)
	assert.Equal(t, 30, settings.Duration)
	assert.Equal(t, 5, settings.AlertThreshold)
}

func TestWithTimingRejectsUnreachableThreshold(t *testing.T) {
	for _, pair := range [][2]int{{10, 10}, {8, 0}, {5, 9}, {1, 0}} {
		_, ok := DefaultSettings().WithTiming(pair[0], pair[1])
		assert.False(t, ok, "duration %d threshold %d", pair[0], pair[1])
	}
}
