package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/spritereload/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(name, []byte(body), 0o644))
	return name
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "icon.png", cfg.Assets.Sprite)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	name := writeConfig(t, `
window:
  title: Test
assets:
  root: testdata
  watch: true
`)

	cfg, err := config.Load(name)
	require.NoError(t, err)
	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "testdata", cfg.Assets.Root)
	assert.Equal(t, "icon.png", cfg.Assets.Sprite)
	assert.True(t, cfg.Assets.Watch)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"malformed yaml", "window: [", false},
		{"zero width", "window:\n  width: 0\n", true},
		{"absolute sprite", "assets:\n  sprite: /etc/icon.png\n", true},
		{"no workers", "assets:\n  workers: 0\n", true},
		{"empty root", "assets:\n  root: \"\"\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, config.ErrInvalid))
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
