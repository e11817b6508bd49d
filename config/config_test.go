package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 10*time.Millisecond, cfg.WriteTimeout())
	assert.Equal(t, time.Millisecond, cfg.ScanInterval())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Board = "5x25"
	cfg.SynthOutput.Output = "IAC Bus 1"
	cfg.Palette = "plasma.gpl"
	cfg.AddController(ControllerConfig{PortName: "KeyStep", Type: ControllerKeyboard, AutoConnect: true})
	require.NoError(t, cfg.SaveTo(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, []string{"KeyStep"}, got.AutoConnect(ControllerKeyboard))
	assert.Equal(t, []string{"Launchpad X LPX MIDI"}, got.AutoConnect(ControllerLaunchpad))
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scan":{"policy":"drop"}}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "drop", cfg.Scan.Policy)
	assert.Equal(t, "launchpad", cfg.Board)
	assert.Equal(t, 32, cfg.Transport.QueueSize)
}

func TestBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestAddControllerUpdates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AddController(ControllerConfig{PortName: "Launchpad X LPX MIDI", Type: ControllerLaunchpad})
	require.Len(t, cfg.Controllers, 1)
	assert.False(t, cfg.FindController("Launchpad X LPX MIDI").AutoConnect)
	assert.Nil(t, cfg.FindController("other"))
}
