package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ControllerType identifies the kind of grid controller
type ControllerType string

const (
	ControllerLaunchpad ControllerType = "launchpad"
	ControllerKeyboard  ControllerType = "keyboard"
)

// ControllerConfig defines a saved controller. PortName is matched as a
// case-insensitive substring of the MIDI port name.
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// SynthOutputConfig names the port pair that plays the role of the USB-MIDI
// endpoint: translated events go out on Output, and whatever the synth or
// DAW sends back on Input feeds the remote voice display.
type SynthOutputConfig struct {
	Output string `json:"output,omitempty"`
	Input  string `json:"input,omitempty"`
	Cable  uint8  `json:"cable,omitempty"`
}

// TransportConfig sizes the event queue and bounds packet writes.
type TransportConfig struct {
	QueueSize      int `json:"queueSize,omitempty"`
	WriteTimeoutMs int `json:"writeTimeoutMs,omitempty"`
}

// ScanConfig selects the scanning behaviour.
type ScanConfig struct {
	// Policy is "block" (direct wiring) or "drop" (shift register).
	Policy     string `json:"policy,omitempty"`
	IntervalMs int    `json:"intervalMs,omitempty"`
	Velocity   uint8  `json:"velocity,omitempty"`
}

// SerialConfig enables the serial console when Device is set.
type SerialConfig struct {
	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`
}

// LEDConfig holds the LED start-up values.
type LEDConfig struct {
	Brightness float64 `json:"brightness,omitempty"`
	HueOffset  float64 `json:"hueOffset,omitempty"`
}

// Config is the main configuration structure. It holds no tuning:
// the board always starts at its default tuning.
type Config struct {
	Board       string             `json:"board,omitempty"`
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	SynthOutput SynthOutputConfig  `json:"synthOutput,omitempty"`
	Transport   TransportConfig    `json:"transport,omitempty"`
	Scan        ScanConfig         `json:"scan,omitempty"`
	Serial      SerialConfig       `json:"serial,omitempty"`
	LED         LEDConfig          `json:"led,omitempty"`
	Palette     string             `json:"palette,omitempty"` // GIMP .gpl file for the TUI
	Debug       bool               `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Board: "launchpad",
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpad,
				AutoConnect: true,
			},
		},
		Transport: TransportConfig{
			QueueSize:      32,
			WriteTimeoutMs: 10,
		},
		Scan: ScanConfig{
			Policy:     "block",
			IntervalMs: 1,
			Velocity:   100,
		},
		Serial: SerialConfig{Baud: 115200},
		LED:    LEDConfig{Brightness: 0.3},
	}
}

// WriteTimeout is the per-packet write bound.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Transport.WriteTimeoutMs) * time.Millisecond
}

// ScanInterval is the pause between matrix scans.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scan.IntervalMs) * time.Millisecond
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lattice-board"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep their
// defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			c.Controllers[i] = ctrl
			return
		}
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// AutoConnect returns the port patterns of auto-connecting controllers of
// the given type.
func (c *Config) AutoConnect(t ControllerType) []string {
	var result []string
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect && ctrl.Type == t {
			result = append(result, ctrl.PortName)
		}
	}
	return result
}
