package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	colorful "github.com/lucasb-eyer/go-colorful"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"lattice-board/debug"
)

var ledSendCount uint64

// LaunchpadController handles a Novation Launchpad X in programmer mode.
type LaunchpadController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	padChan   chan PadEvent
	closeOnce sync.Once
}

// Launchpad X SysEx bodies (without F0/F7)
var (
	sysexProgrammerMode = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}
	sysexLiveMode       = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x00}
	sysexMaxBrightness  = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}
	sysexLEDFeedback    = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x0A, 0x01, 0x01}
)

// NewLaunchpadController creates and configures a Launchpad
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		padChan: make(chan PadEvent, 64),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send
		lp.sendSysEx("programmer mode", sysexProgrammerMode)
		lp.sendSysEx("max brightness", sysexMaxBrightness)
		lp.sendSysEx("led feedback", sysexLEDFeedback)
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			if ev, ok := padEventFromMessage(msg); ok {
				select {
				case lp.padChan <- ev:
				default:
					// a lost release would leave a key held
					debug.Log("lp-recv", "pad channel full, dropped %+v", ev)
				}
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

// padEventFromMessage decodes grid notes and top-row CCs. Note-on with
// velocity 0, note-off and CC value 0 are releases.
func padEventFromMessage(msg gomidi.Message) (PadEvent, bool) {
	var channel, note, velocity, cc, value uint8
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		row, col := noteToRowCol(note)
		if row < 0 {
			return PadEvent{}, false
		}
		return PadEvent{Row: row, Col: col, Velocity: velocity, Pressed: velocity > 0}, true
	case msg.GetNoteOff(&channel, &note, &velocity):
		row, col := noteToRowCol(note)
		if row < 0 {
			return PadEvent{}, false
		}
		return PadEvent{Row: row, Col: col, Velocity: velocity}, true
	case msg.GetControlChange(&channel, &cc, &value):
		row, col := ccToRowCol(cc)
		if row < 0 {
			return PadEvent{}, false
		}
		return PadEvent{Row: row, Col: col, Velocity: value, Pressed: value > 0}, true
	}
	return PadEvent{}, false
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) Type() ControllerType {
	return ControllerLaunchpad
}

func (lp *LaunchpadController) PadEvents() <-chan PadEvent {
	return lp.padChan
}

// SetLEDBatch sends multiple LED updates using individual NoteOn messages
// (SysEx batching had colour issues; callers diff frames so batches stay
// small)
func (lp *LaunchpadController) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		if err := lp.send(gomidi.NoteOn(u.Channel, rowColToNote(u.Row, u.Col), mapRGBToLaunchpad(u.Color))); err != nil {
			return fmt.Errorf("led %d,%d: %w", u.Row, u.Col, err)
		}
	}

	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	if count%100 < uint64(len(updates)) {
		debug.Log("lp-send", "batch count=%d (this batch=%d)", count, len(updates))
	}
	return nil
}

func (lp *LaunchpadController) ClearLEDs() error {
	var updates []LEDUpdate
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if row == 8 && col == 8 {
				continue // no LED at 8,8
			}
			updates = append(updates, LEDUpdate{Row: row, Col: col})
		}
	}
	return lp.SetLEDBatch(updates)
}

// launchpadPalette holds approximate colours of the Launchpad X velocity
// palette entries we use.
var launchpadPalette = func() []struct {
	velocity uint8
	color    colorful.Color
} {
	entries := [][4]uint8{
		{0, 0, 0, 0},         // off
		{1, 30, 30, 30},      // dark grey
		{5, 255, 0, 0},       // red
		{6, 255, 80, 80},     // bright red
		{7, 90, 0, 0},        // dim red
		{9, 255, 100, 0},     // orange
		{11, 90, 40, 0},      // dim orange
		{13, 255, 200, 0},    // yellow
		{15, 80, 70, 0},      // dim yellow
		{17, 0, 180, 0},      // green
		{19, 0, 70, 0},       // dim green
		{21, 0, 255, 0},      // bright green
		{33, 0, 255, 180},    // spring green
		{37, 0, 200, 200},    // cyan
		{39, 0, 60, 60},      // dim cyan
		{43, 20, 30, 90},     // dim blue
		{45, 0, 100, 255},    // blue
		{47, 80, 150, 255},   // bright blue
		{49, 150, 0, 200},    // purple
		{51, 50, 0, 70},      // dim purple
		{53, 255, 80, 180},   // pink
		{55, 90, 20, 60},     // dim pink
		{78, 100, 100, 255},  // light blue
		{84, 255, 150, 50},   // bright orange
		{87, 150, 255, 100},  // lime
		{119, 255, 255, 255}, // white
	}
	out := make([]struct {
		velocity uint8
		color    colorful.Color
	}, len(entries))
	for i, e := range entries {
		out[i].velocity = e[0]
		out[i].color = colorful.Color{R: float64(e[1]) / 255, G: float64(e[2]) / 255, B: float64(e[3]) / 255}
	}
	return out
}()

// mapRGBToLaunchpad finds the perceptually nearest palette entry.
func mapRGBToLaunchpad(rgb [3]uint8) uint8 {
	if rgb == [3]uint8{} {
		return 0
	}
	c := colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}
	best := uint8(0)
	bestDist := -1.0
	for _, p := range launchpadPalette {
		if d := c.DistanceLab(p.color); bestDist < 0 || d < bestDist {
			bestDist = d
			best = p.velocity
		}
	}
	return best
}

// sendSysEx logs a failed setup message; a Launchpad left out of programmer
// mode reports pads as plain notes and shows no LEDs.
func (lp *LaunchpadController) sendSysEx(what string, data []byte) error {
	err := lp.send(gomidi.SysEx(data))
	if err != nil {
		debug.Log("lp-send", "%s: %s sysex failed: %v", lp.id, what, err)
	}
	return err
}

func (lp *LaunchpadController) Close() error {
	lp.closeOnce.Do(func() {
		if lp.send != nil {
			lp.ClearLEDs()
			lp.sendSysEx("live mode", sysexLiveMode)
		}
		if lp.stopFunc != nil {
			lp.stopFunc()
		}
		close(lp.padChan)
	})
	return nil
}

// Launchpad X note mapping
// 8x8 Grid:  Row 0 (bottom) = notes 11-18, Row 7 = notes 81-88
// Side col:  Col 8 (right side scene buttons) = notes 19, 29, 39, 49, 59, 69, 79, 89
// Top row:   Row 8 (top control row) = CC 91-98 (handled via CC messages)

func rowColToNote(row, col int) uint8 {
	// Top row uses CC, but for LED control we use notes 91-98
	if row == ControlRow {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return ControlRow, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	// 8x8 grid plus side column
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

// ccToRowCol converts CC messages to row/col (for top row buttons)
func ccToRowCol(cc uint8) (row, col int) {
	if cc >= 91 && cc <= 98 {
		return ControlRow, int(cc - 91)
	}
	return -1, -1
}
