package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.FPS)
	assert.True(t, cfg.AutoQuit)
	assert.Equal(t, time.Second/60, cfg.FrameInterval())
}

func TestLoad_TOMLOverlaysDefaults(t *testing.T) {
	path := write(t, "cadence.toml", `
fps = 30
polling_interval = "20ms"
auto_quit = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 20*time.Millisecond, cfg.PollingInterval)
	assert.False(t, cfg.AutoQuit)
	// Untouched keys keep defaults
	assert.True(t, cfg.Audio)
	assert.Equal(t, "logs", cfg.LogDir)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "cadence.yaml", `
debug: true
log_dir: /tmp/cadence
audio: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/cadence", cfg.LogDir)
	assert.False(t, cfg.Audio)
	assert.Equal(t, 60, cfg.FPS)
	assert.True(t, cfg.AutoQuit)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.toml", `polling_interval = "soon"`))
	assert.ErrorContains(t, err, "polling_interval")

	_, err = Load(write(t, "zero.yml", "fps: 0\n"))
	assert.ErrorContains(t, err, "fps must be positive")
}

func TestValidate_JoinsProblems(t *testing.T) {
	cfg := Default()
	cfg.FPS = -1
	cfg.PollingInterval = -time.Second
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fps")
	assert.Contains(t, err.Error(), "polling_interval")
}
