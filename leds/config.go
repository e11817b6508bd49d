// Package leds computes key colours from the circle of fifths and the voices
// currently sounding.
package leds

import (
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit colour as sent to LED hardware.
type RGB [3]uint8

func (c RGB) Color() colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

func fromColor(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

const (
	DefaultBrightness = 0.05
	anchorStep        = 5
)

// DefaultAnchors is a 12-tone rainbow starting at red.
var DefaultAnchors = [12]RGB{
	{255, 5, 5},   // red
	{225, 35, 0},  // orange
	{210, 75, 0},  // yellow
	{175, 130, 0}, // yellow green
	{90, 220, 0},  // green
	{0, 245, 35},  // spring green
	{0, 165, 130}, // cyan
	{0, 80, 200},  // azure
	{20, 20, 245}, // blue
	{100, 0, 200}, // purple
	{200, 0, 100}, // magenta
	{215, 0, 25},  // rose
}

// Settings is a copy of the LED configuration.
type Settings struct {
	Brightness float64 // 0-1
	HueOffset  float64 // degrees, 30 per semitone
	Anchors    [12]RGB
	Selected   int
}

// Config is the live, console-adjustable LED configuration.
type Config struct {
	mu sync.Mutex
	s  Settings
}

func NewConfig() *Config {
	return &Config{s: Settings{Brightness: DefaultBrightness, Anchors: DefaultAnchors}}
}

func (c *Config) Snapshot() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

func (c *Config) SetBrightness(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Brightness = clamp01(v)
}

func (c *Config) AdjustBrightness(delta float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Brightness = clamp01(c.s.Brightness + delta)
	return c.s.Brightness
}

func (c *Config) SetHueOffset(deg float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.HueOffset = wrapDegrees(deg)
}

// AdjustHueOffset rotates the hue offset, wrapping into [0, 360).
func (c *Config) AdjustHueOffset(delta float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.HueOffset = wrapDegrees(c.s.HueOffset + delta)
	return c.s.HueOffset
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// SelectAnchor moves the anchor selection by delta, wrapping around.
func (c *Config) SelectAnchor(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Selected = ((c.s.Selected+delta)%12 + 12) % 12
	return c.s.Selected
}

// AdjustAnchor nudges one channel (0=R, 1=G, 2=B) of the selected anchor by
// steps of 5, saturating at 0 and 255.
func (c *Config) AdjustAnchor(channel, steps int) RGB {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := &c.s.Anchors[c.s.Selected]
	if channel >= 0 && channel < 3 {
		v := int(a[channel]) + steps*anchorStep
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		a[channel] = uint8(v)
	}
	return *a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
