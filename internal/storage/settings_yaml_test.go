package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/ui/preferences"
)

const testApp = "TempoTest"

func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	return dir
}

func writeSettings(t *testing.T, body string) {
	t.Helper()
	path, err := ResolveConfigPath(testApp)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useConfigDir(t)

	settings, err := LoadSettings(testApp)

	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	useConfigDir(t)
	settings := preferences.DefaultSettings()
	settings.Volume = 0
	settings.Playlist = "nature"
	settings.CustomURL = "https://youtu.be/DWcJFNfaw9c"
	settings.DesktopNotifications = false
	settings.PauseWhenIdle = true
	settings.IdleAfter = 12 * time.Minute
	settings.LogLevel = "debug"

	require.NoError(t, SaveSettings(testApp, settings))
	loaded, err := LoadSettings(testApp)

	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	useConfigDir(t)
	settings := preferences.DefaultSettings()
	settings.Volume = 140

	err := SaveSettings(testApp, settings)

	require.Error(t, err)
	path, _ := ResolveConfigPath(testApp)
	assert.NoFileExists(t, path)
}

func TestLoadIgnoresOutOfRangeValues(t *testing.T) {
	useConfigDir(t)
	writeSettings(t, `
volume: 250
playlist: jazz
custom_url: https://example.com/video
idle_minutes: 0
log_level: chatty
pause_when_idle: true
`)

	settings, err := LoadSettings(testApp)
	require.NoError(t, err)

	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.Volume, settings.Volume)
	assert.Equal(t, defaults.Playlist, settings.Playlist)
	assert.Empty(t, settings.CustomURL)
	assert.Equal(t, defaults.IdleAfter, settings.IdleAfter)
	assert.Equal(t, defaults.LogLevel, settings.LogLevel)
	assert.True(t, settings.DesktopNotifications, "missing key keeps default")
	assert.True(t, settings.PauseWhenIdle)
}

func TestLoadReportsBrokenYAML(t *testing.T) {
	useConfigDir(t)
	writeSettings(t, "volume: [1, 2\n")

	settings, err := LoadSettings(testApp)

	assert.Error(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestResolveConfigPath(t *testing.T) {
	dir := useConfigDir(t)

	path, err := ResolveConfigPath("Tempo")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Tempo", "settings.yaml"), path)
}
