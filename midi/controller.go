package midi

// ControllerType identifies the kind of grid controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerKeyboard
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	case ControllerKeyboard:
		return "keyboard"
	}
	return "unknown"
}

// PadEvent is a pad going down or up on a grid controller.
// Row 8 is the Launchpad's top control row, col 8 its side column.
type PadEvent struct {
	Row, Col int
	Velocity uint8
	Pressed  bool
}

// ControlRow and ControlCol address the buttons outside the 8x8 grid.
const (
	ControlRow = 8
	ControlCol = 8
)

// IsControl reports whether the event came from a button outside the grid.
func (e PadEvent) IsControl() bool { return e.Row == ControlRow || e.Col == ControlCol }

// LEDUpdate sets one pad's colour.
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8 // ChannelStatic, ChannelFlash or ChannelPulse
}

// Controller is a grid input device that may also show colours.
type Controller interface {
	ID() string
	Type() ControllerType

	// PadEvents is closed when the controller is closed.
	PadEvents() <-chan PadEvent

	// Output to the controller; no-ops on devices without LEDs.
	SetLEDBatch(updates []LEDUpdate) error
	ClearLEDs() error

	Close() error
}

// Launchpad X LED channel modes
const (
	ChannelStatic uint8 = 0 // solid colour
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)
