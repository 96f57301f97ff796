package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"countdown/internal/ui/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DurationSeconds       int               `yaml:"duration_seconds"`
	AlertThresholdSeconds int               `yaml:"alert_threshold_seconds"`
	AlertSound            string            `yaml:"alert_sound,omitempty"`
	AlertVolume           *float64          `yaml:"alert_volume,omitempty"`
	StartFullscreen       bool              `yaml:"start_fullscreen"`
	HistoryEnabled        *bool             `yaml:"history_enabled,omitempty"`
	Keys                  map[string]string `yaml:"keys,omitempty"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	volume := settings.AlertVolume
	history := settings.HistoryEnabled
	fileData := yamlSettings{
		DurationSeconds:       settings.Duration,
		AlertThresholdSeconds: settings.AlertThreshold,
		AlertSound:            settings.AlertSound,
		AlertVolume:           &volume,
		StartFullscreen:       settings.StartFullscreen,
		HistoryEnabled:        &history,
		Keys:                  settings.Keys,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if timed, ok := settings.WithTiming(fileData.DurationSeconds, fileData.AlertThresholdSeconds); ok {
		*settings = timed
	}
	if fileData.AlertVolume != nil && preferences.ValidVolume(*fileData.AlertVolume) {
		settings.AlertVolume = *fileData.AlertVolume
	}
	if fileData.HistoryEnabled != nil {
		settings.HistoryEnabled = *fileData.HistoryEnabled
	}
	if len(fileData.Keys) > 0 {
		settings.Keys = fileData.Keys
	}

	settings.AlertSound = fileData.AlertSound
	settings.StartFullscreen = fileData.StartFullscreen
}
