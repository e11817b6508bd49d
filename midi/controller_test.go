package midi

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"lattice-board/debug"
)

func TestLaunchpadPadEvents(t *testing.T) {
	ev, ok := padEventFromMessage(gomidi.NoteOn(0, 11, 90))
	assert.True(t, ok)
	assert.Equal(t, PadEvent{Row: 0, Col: 0, Velocity: 90, Pressed: true}, ev)

	ev, ok = padEventFromMessage(gomidi.NoteOn(0, 88, 0))
	assert.True(t, ok)
	assert.Equal(t, PadEvent{Row: 7, Col: 7}, ev)

	ev, ok = padEventFromMessage(gomidi.NoteOff(0, 45))
	assert.True(t, ok)
	assert.Equal(t, PadEvent{Row: 3, Col: 4}, ev)

	ev, ok = padEventFromMessage(gomidi.ControlChange(0, 93, 127))
	assert.True(t, ok)
	assert.Equal(t, PadEvent{Row: ControlRow, Col: 2, Velocity: 127, Pressed: true}, ev)
	assert.True(t, ev.IsControl())

	ev, _ = padEventFromMessage(gomidi.NoteOn(0, 19, 100))
	assert.True(t, ev.IsControl(), "side column")

	_, ok = padEventFromMessage(gomidi.ControlChange(0, 7, 100))
	assert.False(t, ok)
	_, ok = padEventFromMessage(gomidi.NoteOn(0, 5, 100))
	assert.False(t, ok)
}

func TestLaunchpadNoteMapping(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 9; col++ {
			r, c := noteToRowCol(rowColToNote(row, col))
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
	assert.Equal(t, uint8(95), rowColToNote(ControlRow, 4))
}

func TestMapRGBToLaunchpad(t *testing.T) {
	assert.Equal(t, uint8(0), mapRGBToLaunchpad([3]uint8{}))
	assert.Equal(t, uint8(5), mapRGBToLaunchpad([3]uint8{250, 0, 0}))
	assert.Equal(t, uint8(119), mapRGBToLaunchpad([3]uint8{255, 255, 255}))
	assert.Equal(t, uint8(45), mapRGBToLaunchpad([3]uint8{0, 100, 250}))
}

func TestKeyboardPads(t *testing.T) {
	row, col, ok := KeyboardNoteToPad(KeyboardBaseNote + 10)
	assert.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	_, _, ok = KeyboardNoteToPad(KeyboardBaseNote - 1)
	assert.False(t, ok)
	_, _, ok = KeyboardNoteToPad(KeyboardBaseNote + 64)
	assert.False(t, ok)

	ev, ok := keyboardPadEvent(gomidi.NoteOn(3, KeyboardBaseNote, 70))
	assert.True(t, ok)
	assert.Equal(t, PadEvent{Velocity: 70, Pressed: true}, ev)
	ev, ok = keyboardPadEvent(gomidi.NoteOff(3, KeyboardBaseNote))
	assert.True(t, ok)
	assert.False(t, ev.Pressed)
	_, ok = keyboardPadEvent(gomidi.Pitchbend(0, 10))
	assert.False(t, ok)
}

func TestIsLaunchpad(t *testing.T) {
	pats := []string{"launchpad"}
	assert.True(t, isLaunchpad("Launchpad X LPX MIDI In", pats))
	assert.False(t, isLaunchpad("Launchpad X LPX DAW In", pats))
	assert.False(t, isLaunchpad("IAC Bus 1", pats))
	assert.True(t, matchAny("Arturia KeyStep 37", []string{"keystep"}))
	assert.False(t, matchAny("anything", []string{""}))
}

type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLaunchpadSysExFailureIsLogged(t *testing.T) {
	var logs logBuffer
	debug.SetMirror(&logs)
	defer debug.SetMirror(nil)

	var sent []gomidi.Message
	lp := &LaunchpadController{id: "lp-x", send: func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return errors.New("port gone")
	}}

	err := lp.sendSysEx("programmer mode", sysexProgrammerMode)
	require.Error(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, byte(0xF0), sent[0][0])

	require.Eventually(t, func() bool { return strings.Contains(logs.String(), "lp-send") }, time.Second, time.Millisecond)
	assert.Contains(t, logs.String(), "lp-x: programmer mode sysex failed: port gone")
}
