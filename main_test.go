package main

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/presets"
)

func TestFindAvailablePortSkipsBusyPort(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	busy := l.Addr().(*net.TCPAddr).Port
	port, err := findAvailablePort(busy, 5)
	require.NoError(t, err)
	assert.NotEqual(t, busy, port)
	assert.Greater(t, port, busy)
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "predict", "train", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestResolvePresetRemembersLastUsed(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	log := zaptest.NewLogger(t)

	store, err := presets.NewStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Create(&presets.Preset{Name: "Seed"})
	require.NoError(t, err)

	assert.Empty(t, resolvePreset("", store, log))

	assert.Equal(t, "Seed", resolvePreset("Seed", store, log))
	settings, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "Seed", settings.LastPreset)

	assert.Equal(t, "Seed", resolvePreset("", store, log))

	// an unknown explicit name is passed through but not remembered
	assert.Equal(t, "Missing", resolvePreset("Missing", store, log))
	assert.Equal(t, "Seed", resolvePreset("", store, log))
}

func TestResolvePresetDropsDeletedPreset(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, config.SaveSettings(&config.Settings{LastPreset: "Gone"}))

	store, err := presets.NewStore(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, resolvePreset("", store, zaptest.NewLogger(t)))
}
