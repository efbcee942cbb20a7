package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "show.yaml", `
input: talk.p3d
paths: [media, "~/slides"]
options: [holding_slide]
time_per_slide: 3.5
loop: true
headless: true
ticks: 120
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "talk.p3d", cfg.InputPath)
	assert.Equal(t, []string{"media", "~/slides"}, cfg.SearchPaths)
	assert.Equal(t, []string{"holding_slide"}, cfg.Options)
	assert.Equal(t, 3.5, cfg.TimePerSlide)
	assert.True(t, cfg.Loop)
	assert.True(t, cfg.Headless)
	assert.Equal(t, uint64(120), cfg.Ticks)
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	// Unset keys keep their defaults.
	assert.Equal(t, 0.26, cfg.SlideHeight)
	assert.Equal(t, 60, cfg.Hz)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "show.toml", `
input = "talk.xml"
auto = true
min_key_interval = 0.5
width = 800
height = 600
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "talk.xml", cfg.InputPath)
	assert.True(t, cfg.AutoStep)
	assert.Equal(t, 0.5, cfg.MinKeyInterval)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "show.ini", "input=x"))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.yaml", "loop: [unterminated"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandPaths(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	cfg := Default()
	cfg.InputPath = "~/talk.p3d"
	cfg.SearchPaths = []string{"~/media", "/abs"}
	require.NoError(t, cfg.ExpandPaths())

	assert.Equal(t, filepath.Join(home, "talk.p3d"), cfg.InputPath)
	assert.Equal(t, []string{filepath.Join(home, "media"), "/abs"}, cfg.SearchPaths)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.SlideHeight = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Headless, cfg.Hz = true, 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
