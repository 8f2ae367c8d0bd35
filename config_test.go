package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curves.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())

	pal := cfg.Palette()
	assert.Equal(t, AnchorCurve(0.02, 41, 16, 0), pal[0])
	assert.Equal(t, AnchorCurve(0.022, 71, 16, 8), pal[1])
	assert.Equal(t, AnchorCurve(0.022, 71, 16, 55), pal[2])
}

func TestLoadConfig_Overlay(t *testing.T) {
	path := writeConfig(t, `
curves:
  - {m: 0.03, b: 50, x0: 20, v0: 1}
  - {m: 0.03, b: 60, x0: 20, v0: 2}
  - {m: 0.03, b: 70, x0: 20, v0: 3}
workers: 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, CurveSeed{M: 0.03, B: 60, X0: 20, V0: 2}, cfg.Curves[1])
	assert.Equal(t, 2, cfg.Workers)
	// Unset keys keep their defaults.
	assert.Equal(t, 10, cfg.ProgressRows)

	opts := cfg.Options()
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, 10, opts.ProgressRows)
}

func TestLoadConfig_Invalid(t *testing.T) {
	for name, body := range map[string]string{
		"two curves":    "curves: [{m: 1, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}]",
		"low anchor":    "curves: [{m: 1, b: 1, x0: 15, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}]",
		"infinite":      "curves: [{m: .inf, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}]",
		"no solution":   "curves: [{m: 1000, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}]",
		"bright anchor": "curves: [{m: 0.02, b: 41, x0: 16, v0: 1e20}, {m: 1, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: 1}]",
		"dark anchor":   "curves: [{m: 1, b: 1, x0: 16, v0: 1}, {m: 1, b: 1, x0: 16, v0: -1}, {m: 1, b: 1, x0: 16, v0: 1}]",
		"progress":      "progress_rows: -1",
		"negative pool": "workers: -4",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "curves: {not: [a list"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	cfg, err := LoadConfig(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
