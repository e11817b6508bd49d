package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice-board/board"
	"lattice-board/midi"
	"lattice-board/theme"
	"lattice-board/tuning"
)

func newTestModel() Model {
	m := board.NewManager(board.Options{})
	return NewModel(m, nil, theme.New(theme.Default()))
}

func TestKeyAppliesCommand(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	assert.Equal(t, tuning.Standard, next.(Model).Manager.Tunables.Mode())

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{')'}})
	assert.InDelta(t, 698.0, next.(Model).Manager.Tunables.FifthSize(), 1e-9)
}

func TestQuit(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.Equal(t, "", next.View())
}

func TestViewShowsStatus(t *testing.T) {
	m := newTestModel()
	out := m.View()
	assert.Contains(t, out, "lattice-board")
	assert.Contains(t, out, "Fifths")
	assert.Contains(t, out, "697.0c")
	assert.Contains(t, out, "no controller")
	assert.Equal(t, 9, m.bounds.gridRows)
	assert.Equal(t, 9, m.bounds.gridCols)
	assert.True(t, strings.Count(out, "■") >= 64)
}

func TestHitTest(t *testing.T) {
	m := newTestModel()
	m.View()

	// bottom-left pad of the launchpad grid
	tip := m.hitTest(0, m.bounds.gridTop+m.bounds.gridRows-1)
	assert.Contains(t, tip, "pad 0,0")

	// top-left is the mode button
	tip = m.hitTest(0, m.bounds.gridTop)
	assert.Contains(t, tip, "toggle Fifths / Standard")

	assert.Equal(t, "", m.hitTest(1, m.bounds.gridTop))
}

type stubController struct{ events chan midi.PadEvent }

func (s *stubController) ID() string                         { return "stub" }
func (s *stubController) Type() midi.ControllerType          { return midi.ControllerLaunchpad }
func (s *stubController) PadEvents() <-chan midi.PadEvent    { return s.events }
func (s *stubController) SetLEDBatch([]midi.LEDUpdate) error { return nil }
func (s *stubController) ClearLEDs() error                   { return nil }
func (s *stubController) Close() error                       { close(s.events); return nil }

func TestDeviceEvents(t *testing.T) {
	m := newTestModel()
	c := &stubController{events: make(chan midi.PadEvent)}
	defer c.Close()

	next, _ := m.Update(DeviceEventMsg{Type: midi.DeviceConnected, Controller: c, ID: "stub"})
	assert.Equal(t, c, next.(Model).Manager.Controller())

	next, _ = next.Update(DeviceEventMsg{Type: midi.DeviceDisconnected, ID: "stub"})
	assert.Nil(t, next.(Model).Manager.Controller())
}
