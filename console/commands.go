// Package console is the serial control surface: single-byte commands that
// retune the board or recolour its LEDs, and a text dashboard.
package console

import (
	"strings"

	"lattice-board/leds"
	"lattice-board/tuning"
)

// Targets are the live settings commands act on.
type Targets struct {
	Tunables *tuning.Tunables
	LEDs     *leds.Config
}

// Apply runs one command byte and reports whether it was recognised.
func (t Targets) Apply(b byte) bool {
	if t.applyTuning(b) {
		return true
	}
	return t.applyLED(b)
}

// ApplyAll runs every byte of data.
func (t Targets) ApplyAll(data []byte) {
	for _, b := range data {
		t.Apply(b)
	}
}

func (t Targets) applyTuning(b byte) bool {
	tu := t.Tunables
	if tu == nil {
		return false
	}
	switch b {
	case 't', 'T':
		tu.ToggleMode()
	case '(':
		tu.AdjustFifthSize(-1)
	case ')':
		tu.AdjustFifthSize(1)
	case '{':
		tu.AdjustFifthSize(-0.1)
	case '}':
		tu.AdjustFifthSize(0.1)
	case ',':
		tu.AdjustPitchBendRange(-1)
	case '.':
		tu.AdjustPitchBendRange(1)
	case '<':
		tu.AdjustPitchBendRange(-0.1)
	case '>':
		tu.AdjustPitchBendRange(0.1)
	default:
		return false
	}
	return true
}

func (t Targets) applyLED(b byte) bool {
	c := t.LEDs
	if c == nil {
		return false
	}
	switch b {
	case '[':
		c.SelectAnchor(-1)
	case ']':
		c.SelectAnchor(1)
	case 'r':
		c.AdjustAnchor(0, -1)
	case 'R':
		c.AdjustAnchor(0, 1)
	case 'g':
		c.AdjustAnchor(1, -1)
	case 'G':
		c.AdjustAnchor(1, 1)
	case 'b':
		c.AdjustAnchor(2, -1)
	case 'B':
		c.AdjustAnchor(2, 1)
	case 'L':
		c.AdjustBrightness(0.05)
	case 'l':
		c.AdjustBrightness(-0.05)
	case '+', '=':
		c.AdjustBrightness(0.01)
	case '-', '_':
		c.AdjustBrightness(-0.01)
	case 'H':
		c.AdjustHueOffset(1)
	case 'h':
		c.AdjustHueOffset(-1)
	default:
		return false
	}
	return true
}

// Help lists the command keys for display.
var Help = []struct{ Keys, Action string }{
	{"t", "toggle Fifths / Standard"},
	{"( )", "fifth -/+ 1 cent"},
	{"{ }", "fifth -/+ 0.1 cent"},
	{", .", "bend range -/+ 1"},
	{"< >", "bend range -/+ 0.1"},
	{"[ ]", "select colour anchor"},
	{"r R g G b B", "anchor colour -/+"},
	{"l L", "brightness -/+ 0.05"},
	{"- +", "brightness -/+ 0.01"},
	{"h H", "hue -/+ 1 degree"},
	{"D", "log / dashboard"},
}

// Describe returns the help text for a command key, or "" if unbound.
func Describe(cmd byte) string {
	for _, h := range Help {
		for _, k := range strings.Fields(h.Keys) {
			if k == string(cmd) {
				return h.Action
			}
		}
	}
	return ""
}
