package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"lattice-board/debug"
)

// KeyboardBaseNote is the keyboard note that lands on grid pad 0,0.
const KeyboardBaseNote = 36

// KeyboardController lets an ordinary MIDI keyboard stand in for a grid:
// notes from KeyboardBaseNote upward fill an 8-wide grid row by row. It has
// no LEDs.
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	padChan   chan PadEvent
	closeOnce sync.Once
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:      id,
		inPort:  inPort,
		padChan: make(chan PadEvent, 64),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			ev, ok := keyboardPadEvent(msg)
			if !ok {
				return
			}
			select {
			case kb.padChan <- ev:
			default:
				debug.Log("kb-recv", "pad channel full, dropped %+v", ev)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func keyboardPadEvent(msg gomidi.Message) (PadEvent, bool) {
	var channel, note, velocity uint8
	pressed := false
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		pressed = velocity > 0
	case msg.GetNoteOff(&channel, &note, &velocity):
	default:
		return PadEvent{}, false
	}
	row, col, ok := KeyboardNoteToPad(note)
	if !ok {
		return PadEvent{}, false
	}
	return PadEvent{Row: row, Col: col, Velocity: velocity, Pressed: pressed}, true
}

// KeyboardNoteToPad maps a keyboard note onto the 8x8 grid.
func KeyboardNoteToPad(note uint8) (row, col int, ok bool) {
	if note < KeyboardBaseNote {
		return 0, 0, false
	}
	off := int(note - KeyboardBaseNote)
	row, col = off/8, off%8
	if row > 7 {
		return 0, 0, false
	}
	return row, col, true
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) PadEvents() <-chan PadEvent {
	return kb.padChan
}

// SetLEDBatch is a no-op for keyboards
func (kb *KeyboardController) SetLEDBatch(updates []LEDUpdate) error {
	return nil
}

func (kb *KeyboardController) ClearLEDs() error {
	return nil
}

func (kb *KeyboardController) Close() error {
	kb.closeOnce.Do(func() {
		if kb.stopFunc != nil {
			kb.stopFunc()
		}
		close(kb.padChan)
	})
	return nil
}
