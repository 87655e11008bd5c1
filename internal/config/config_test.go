package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morphic.yaml")
	yml := `window:
  width: 1024
  title: scene
scheduler:
  idle_step: 250ms
debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("MORPHIC_WINDOW_TITLE", "from env")
	t.Setenv("MORPHIC_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, "from env", cfg.Window.Title)
	assert.Equal(t, 250*time.Millisecond, cfg.Scheduler.IdleStep)
	assert.Equal(t, time.Millisecond, cfg.Scheduler.MinStep)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero tps", func(c *Config) { c.Window.TPS = 0 }},
		{"zero min step", func(c *Config) { c.Scheduler.MinStep = 0 }},
		{"idle below min", func(c *Config) { c.Scheduler.IdleStep = time.Microsecond }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
	c := Defaults()
	assert.NoError(t, c.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Defaults()
	c.Window.Title = "saved"
	require.NoError(t, c.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", got.Window.Title)
}
