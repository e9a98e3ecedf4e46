package game

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/types"
)

func TestLoadConfigLayersOverDefaults(t *testing.T) {
	file := path.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
control:
  input_mode: mouse
  fps: 30
data:
  save_format: csv
  num_episodes: 25
`), 0644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mouse", cfg.Control.InputMode)
	assert.Equal(t, 30, cfg.Control.FPS)
	assert.Equal(t, "csv", cfg.Data.Format)
	assert.Equal(t, 25, cfg.Data.NumEpisodes)
	// untouched defaults survive
	assert.Equal(t, "pixels_agent_pos", cfg.Env.ObsType)
	assert.Equal(t, 300, cfg.Env.MaxEpisodeSteps)
	assert.Equal(t, "q", cfg.Control.Keys.Quit)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"input mode", func(c *Config) { c.Control.InputMode = "joystick" }},
		{"obs type", func(c *Config) { c.Env.ObsType = "voxels" }},
		{"policy", func(c *Config) { c.Policy.Type = "oracle" }},
		{"format", func(c *Config) { c.Data.Format = "hdf5" }},
		{"smoothing", func(c *Config) { c.Control.Mouse.Smoothing = 1.0 }},
		{"fps", func(c *Config) { c.Control.FPS = 0 }},
		{"max steps", func(c *Config) { c.Env.MaxEpisodeSteps = -1 }},
		{"episodes", func(c *Config) { c.Data.NumEpisodes = 0 }},
		{"unbound key", func(c *Config) { c.Control.Keys.Quit = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(path.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestInputSourceSelection(t *testing.T) {
	cfg := DefaultConfig()
	src, err := cfg.InputSource(types.Workspace)
	require.NoError(t, err)
	assert.NotNil(t, src)

	cfg.Control.InputMode = "mouse"
	src, err = cfg.InputSource(types.Workspace)
	require.NoError(t, err)
	assert.NotNil(t, src)
}
