package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"tempo/internal/core/volume"
	"tempo/internal/media"
	"tempo/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Volume               *int   `yaml:"volume"`
	Playlist             string `yaml:"playlist"`
	CustomURL            string `yaml:"custom_url,omitempty"`
	DesktopNotifications *bool  `yaml:"desktop_notifications"`
	PauseWhenIdle        bool   `yaml:"pause_when_idle"`
	IdleMinutes          int    `yaml:"idle_minutes"`
	LogLevel             string `yaml:"log_level"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
// Fields that are missing or out of range keep their defaults.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := ResolveConfigPath(appName)
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
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Volume:               &settings.Volume,
		Playlist:             settings.Playlist,
		CustomURL:            settings.CustomURL,
		DesktopNotifications: &settings.DesktopNotifications,
		PauseWhenIdle:        settings.PauseWhenIdle,
		IdleMinutes:          int(settings.IdleAfter / time.Minute),
		LogLevel:             settings.LogLevel,
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

// ResolveConfigPath returns <UserConfigDir>/<appName>/settings.yaml.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Volume != nil && *fileData.Volume == volume.Clamp(*fileData.Volume) {
		settings.Volume = *fileData.Volume
	}
	if _, ok := media.Lookup(fileData.Playlist); ok {
		settings.Playlist = fileData.Playlist
	}
	if fileData.CustomURL != "" {
		if _, err := media.ParseSource(fileData.CustomURL); err == nil {
			settings.CustomURL = fileData.CustomURL
		}
	}
	if fileData.DesktopNotifications != nil {
		settings.DesktopNotifications = *fileData.DesktopNotifications
	}
	idleAfter := time.Duration(fileData.IdleMinutes) * time.Minute
	if idleAfter >= preferences.MinIdleAfter && idleAfter <= preferences.MaxIdleAfter {
		settings.IdleAfter = idleAfter
	}
	if _, err := logrus.ParseLevel(fileData.LogLevel); err == nil {
		settings.LogLevel = fileData.LogLevel
	}

	settings.PauseWhenIdle = fileData.PauseWhenIdle
}
