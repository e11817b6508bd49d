package board

import (
	"context"
	"time"

	"lattice-board/debug"
	"lattice-board/leds"
	"lattice-board/midi"
	"lattice-board/tuning"
)

// controlCommands binds the Launchpad buttons outside the grid to console
// commands. Top row left to right, then the side column bottom to top.
var controlCommands = map[[2]int]byte{
	{midi.ControlRow, 0}: 't',
	{midi.ControlRow, 1}: '(',
	{midi.ControlRow, 2}: ')',
	{midi.ControlRow, 3}: ',',
	{midi.ControlRow, 4}: '.',
	{midi.ControlRow, 5}: 'l',
	{midi.ControlRow, 6}: 'L',
	{midi.ControlRow, 7}: 'H',
	{0, midi.ControlCol}: '{',
	{1, midi.ControlCol}: '}',
	{2, midi.ControlCol}: '<',
	{3, midi.ControlCol}: '>',
	{4, midi.ControlCol}: '[',
	{5, midi.ControlCol}: ']',
	{6, midi.ControlCol}: 'h',
}

var modeButton = [2]int{midi.ControlRow, 0}

// ControlCommand reports the command bound to a control button.
func ControlCommand(row, col int) (byte, bool) {
	cmd, ok := controlCommands[[2]int{row, col}]
	return cmd, ok
}

// Control button colours
var (
	ColorFifths   = [3]uint8{255, 100, 0}
	ColorStandard = [3]uint8{0, 255, 0}
	ColorControl  = [3]uint8{30, 30, 30}
)

// SetController attaches the grid controller used for input and LED
// feedback (nil detaches). Held pads are released so no key stays stuck
// across a reconnect.
func (m *Manager) SetController(c midi.Controller) {
	debug.Log("ctrl", "SetController called, resetting diff state")
	m.mu.Lock()
	m.controller = c
	m.prevLEDs = make(map[[2]int]midi.LEDUpdate)
	m.mu.Unlock()
	m.Pads.Reset()

	if c != nil {
		go func() {
			for ev := range c.PadEvents() {
				m.HandlePad(ev)
			}
		}()
	}
	m.notifyUpdate()
}

func (m *Manager) Controller() midi.Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller
}

// HandlePad routes a pad edge: control buttons run their command on press,
// grid pads feed the scanner.
func (m *Manager) HandlePad(ev midi.PadEvent) {
	if ev.IsControl() {
		if cmd, ok := ControlCommand(ev.Row, ev.Col); ok && ev.Pressed {
			m.Apply(cmd)
		}
		return
	}
	m.Pads.Set(ev.Row, ev.Col, ev.Pressed)
	m.notifyUpdate()
}

// ledLoop runs at fixed FPS and flushes LED updates
func (m *Manager) ledLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.flushLEDs()
		}
	}
}

// Frame renders the full set of pad colours for the current state.
func (m *Manager) Frame() []midi.LEDUpdate {
	p := m.Tunables.Snapshot()
	s := m.LEDs.Snapshot()
	lit := leds.Lit(m.Board, m.Scanner.Held.Snapshot(), m.Remote.Snapshot(), p.FifthSize, p.PitchBendRange)
	frame := leds.Render(m.Board, s, lit)

	rows, cols := m.Board.Size()
	var out []midi.LEDUpdate
	for r := 0; r < rows && r < midi.ControlRow; r++ {
		for c := 0; c < cols && c < midi.ControlCol; c++ {
			coord, ok := m.Board.KeyToCoord(r, c)
			if !ok {
				continue
			}
			idx, ok := m.Board.CoordToLED(coord)
			if !ok {
				continue
			}
			out = append(out, midi.LEDUpdate{Row: r, Col: c, Color: frame[idx]})
		}
	}

	for pos := range controlCommands {
		color := ColorControl
		if pos == modeButton {
			color = ColorFifths
			if p.Mode == tuning.Standard {
				color = ColorStandard
			}
		}
		out = append(out, midi.LEDUpdate{Row: pos[0], Col: pos[1], Color: color})
	}
	return out
}

// flushLEDs sends only changed LEDs to the controller (diffing + batching)
func (m *Manager) flushLEDs() {
	c := m.Controller()
	if c == nil {
		return
	}

	frame := m.Frame()
	next := make(map[[2]int]midi.LEDUpdate, len(frame))

	m.mu.Lock()
	var updates []midi.LEDUpdate
	for _, u := range frame {
		key := [2]int{u.Row, u.Col}
		next[key] = u
		if prev, ok := m.prevLEDs[key]; !ok || prev != u {
			updates = append(updates, u)
		}
	}
	// Clear LEDs that are no longer present
	for key := range m.prevLEDs {
		if _, ok := next[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}
	m.prevLEDs = next
	m.mu.Unlock()

	if len(updates) > 0 {
		debug.LogEvery(30, "led", "flushLEDs: batch=%d", len(updates))
		if err := c.SetLEDBatch(updates); err != nil {
			debug.LogEvery(30, "led", "SetLEDBatch: %v", err)
		}
	}
}
