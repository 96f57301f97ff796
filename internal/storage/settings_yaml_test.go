package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countdown/internal/ui/preferences"
)

const testApp = "CountdownTest"

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	configDir, err := os.UserConfigDir()
	require.NoError(t, err)
	return configDir
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	settings, err := LoadSettings(testApp)

	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveAndLoadSettings(t *testing.T) {
	useTempConfigDir(t)
	settings := preferences.DefaultSettings()
	settings.Duration = 90
	settings.AlertThreshold = 15
	settings.AlertSound = "/tmp/10sec.mp3"
	settings.AlertVolume = 0
	settings.StartFullscreen = true
	settings.HistoryEnabled = false
	settings.Keys = map[string]string{"S": "start", "2": "stop", "3": "pause", "4": "extend"}

	require.NoError(t, SaveSettings(testApp, settings))
	loaded, err := LoadSettings(testApp)

	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadSettingsIgnoresOutOfRangeValues(t *testing.T) {
	configDir := useTempConfigDir(t)
	path := filepath.Join(configDir, testApp, settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("duration_seconds: -4\nalert_threshold_seconds: 0\nalert_volume: 7\n"), 0o644))

	settings, err := LoadSettings(testApp)

	require.NoError(t, err)
	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.Duration, settings.Duration)
	assert.Equal(t, defaults.AlertThreshold, settings.AlertThreshold)
	assert.Equal(t, defaults.AlertVolume, settings.AlertVolume)
	assert.True(t, settings.HistoryEnabled)
}

func TestLoadSettingsRejectsMalformedYaml(t *testing.T) {
	configDir := useTempConfigDir(t)
	path := filepath.Join(configDir, testApp, settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("duration_seconds: [\n"), 0o644))

	settings, err := LoadSettings(testApp)

	assert.ErrorContains(t, err, "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadSettingsRejectsThresholdNotBelowDuration(t *testing.T) {
	configDir := useTempConfigDir(t)
	path := filepath.Join(configDir, testApp, settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("duration_seconds: 10\nalert_threshold_seconds: 10\n"), 0o644))

	settings, err := LoadSettings(testApp)

	require.NoError(t, err)
	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.Duration, settings.Duration)
	assert.Equal(t, defaults.AlertThreshold, settings.AlertThreshold)
	assert.True(t, settings.CountdownConfig().Valid())
}

func TestLoadSettingsShortDurationWithThreshold(t *testing.T) {
	configDir := useTempConfigDir(t)
	path := filepath.Join(configDir, testApp, settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("duration_seconds: 8\nalert_threshold_seconds: 3\n"), 0o644))

	settings, err := LoadSettings(testApp)

	require.NoError(t, err)
	assert.Equal(t, 8, settings.Duration)
	assert.Equal(t, 3, settings.AlertThreshold)
}
