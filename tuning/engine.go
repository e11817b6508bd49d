package tuning

import (
	"math"
	"sync"

	"lattice-board/layout"
	"lattice-board/midi"
	"lattice-board/mpe"
)

// Fifths mode places the center key on channel 5, note 60.
const (
	fifthsCenterChannel = 4
	fifthsCenterNote    = 60
)

// MaxVelocity is the largest 7-bit velocity.
const MaxVelocity = 127

// Engine turns key edges into at most one MIDI event each.
type Engine struct {
	Board    layout.Board
	Tunables *Tunables
	Alloc    *mpe.Allocator
	Ledger   *mpe.Ledger

	// mu makes a press's allocate, record and rollback one step as seen by
	// other translators. Readers of Alloc and Ledger do not take it.
	mu sync.Mutex
}

func NewEngine(board layout.Board, tunables *Tunables) *Engine {
	if tunables == nil {
		tunables = NewTunables()
	}
	return &Engine{
		Board:    board,
		Tunables: tunables,
		Alloc:    &mpe.Allocator{},
		Ledger:   &mpe.Ledger{},
	}
}

// Translate maps one key edge to an output event. ok is false when the edge
// produces nothing: a press with every MPE channel taken, or a release that
// never got a channel.
func (e *Engine) Translate(coord layout.Coordinate, velocity uint8, pressed bool) (midi.Event, bool) {
	if velocity > MaxVelocity {
		velocity = MaxVelocity
	}
	p := e.Tunables.Snapshot()
	if p.Mode == Fifths {
		return e.fifths(coord, velocity, pressed), true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if pressed {
		return e.press(coord, velocity, p)
	}
	return e.release(coord, velocity, p)
}

func (e *Engine) fifths(coord layout.Coordinate, velocity uint8, pressed bool) midi.Event {
	octaves, fifths := Offsets(coord, e.Board.Center())
	ev := midi.Event{
		Kind:     midi.NoteOff,
		Channel:  uint8(clamp(fifthsCenterChannel+octaves, 0, 15)),
		Note:     uint8(clamp(fifthsCenterNote+fifths, 0, 127)),
		Velocity: velocity,
	}
	if pressed {
		ev.Kind = midi.NoteOn
	}
	return ev
}

func (e *Engine) press(coord layout.Coordinate, velocity uint8, p Params) (midi.Event, bool) {
	cents := PitchCents(coord, e.Board.Center(), p.FifthSize)
	note := NearestNote(cents)
	if p.FifthSize == PureFifth {
		return midi.Event{Kind: midi.NoteOn, Channel: 0, Note: note, Velocity: velocity}, true
	}

	ch, ok := e.Alloc.Alloc()
	if !ok {
		return midi.Event{}, false
	}
	if !e.Ledger.Push(coord, ch) {
		// already sounding on another channel
		e.Alloc.Free(ch)
		return midi.Event{}, false
	}
	return midi.Event{
		Kind:     midi.MpeNoteOn,
		Channel:  ch,
		Note:     note,
		Velocity: velocity,
		Bend:     Bend(cents-float64(note)*100, p.PitchBendRange),
	}, true
}

// release recomputes the pitch with the current parameters. If the fifth
// changed while the key was held this can name a different note than the
// one turned on.
func (e *Engine) release(coord layout.Coordinate, velocity uint8, p Params) (midi.Event, bool) {
	note := NearestNote(PitchCents(coord, e.Board.Center(), p.FifthSize))
	if ch, ok := e.Ledger.Remove(coord); ok {
		e.Alloc.Free(ch)
		return midi.Event{Kind: midi.NoteOff, Channel: ch, Note: note, Velocity: velocity}, true
	}
	if p.FifthSize == PureFifth {
		return midi.Event{Kind: midi.NoteOff, Channel: 0, Note: note, Velocity: velocity}, true
	}
	return midi.Event{}, false
}

// Bend converts an offset in cents to a 14-bit pitch bend value for a synth
// whose bend range is pbr semitones.
func Bend(cents, pbr float64) uint16 {
	v := float64(midi.BendCenter) + (cents/100)*(8192/pbr)
	v = clamp(v, 0, float64(midi.BendMax))
	return uint16(math.Trunc(v))
}
