package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Kind tags the variant carried by an Event.
type Kind uint8

const (
	NoteOn Kind = iota + 1
	NoteOff
	PitchBend
	MpeNoteOn
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "NoteOn"
	case NoteOff:
		return "NoteOff"
	case PitchBend:
		return "PitchBend"
	case MpeNoteOn:
		return "MpeNoteOn"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// 14-bit pitch bend range
const (
	BendCenter uint16 = 8192
	BendMax    uint16 = 16383
)

// Event is one output event produced by the translation engine and consumed
// by the outbound transport loop.
type Event struct {
	Kind     Kind
	Channel  uint8 // 0-15, 0 is MIDI channel 1
	Note     uint8
	Velocity uint8
	Bend     uint16 // PitchBend value, or the initial bend of an MpeNoteOn
}

func (e Event) String() string {
	switch e.Kind {
	case PitchBend:
		return fmt.Sprintf("%s{ch:%d bend:%d}", e.Kind, e.Channel+1, e.Bend)
	case MpeNoteOn:
		return fmt.Sprintf("%s{ch:%d note:%d vel:%d bend:%d}", e.Kind, e.Channel+1, e.Note, e.Velocity, e.Bend)
	}
	return fmt.Sprintf("%s{ch:%d note:%d vel:%d}", e.Kind, e.Channel+1, e.Note, e.Velocity)
}

// Messages expands the event into the MIDI messages put on the wire, in
// order. A plain NoteOn is preceded by a centered bend so the channel's
// previous MPE occupant cannot leave a bend behind; an MpeNoteOn sends its
// bend before the note so the synth starts the voice already bent.
func (e Event) Messages() []gomidi.Message {
	ch := e.Channel & 0x0F
	switch e.Kind {
	case NoteOn:
		return []gomidi.Message{
			bendMessage(ch, BendCenter),
			gomidi.NoteOn(ch, e.Note&0x7F, e.Velocity&0x7F),
		}
	case MpeNoteOn:
		return []gomidi.Message{
			bendMessage(ch, e.Bend),
			gomidi.NoteOn(ch, e.Note&0x7F, e.Velocity&0x7F),
		}
	case NoteOff:
		return []gomidi.Message{gomidi.NoteOffVelocity(ch, e.Note&0x7F, e.Velocity&0x7F)}
	case PitchBend:
		return []gomidi.Message{bendMessage(ch, e.Bend)}
	}
	return nil
}

func bendMessage(ch uint8, abs uint16) gomidi.Message {
	if abs > BendMax {
		abs = BendMax
	}
	return gomidi.Pitchbend(ch, int16(abs)-int16(BendCenter))
}
