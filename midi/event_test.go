package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestEventMessages(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want []gomidi.Message
	}{
		{
			"note on centers the bend first",
			Event{Kind: NoteOn, Channel: 0, Note: 60, Velocity: 100},
			[]gomidi.Message{{0xE0, 0x00, 0x40}, {0x90, 60, 100}},
		},
		{
			"mpe note on bends then plays",
			Event{Kind: MpeNoteOn, Channel: 2, Note: 62, Velocity: 90, Bend: 7700},
			[]gomidi.Message{{0xE2, 7700 & 0x7F, 7700 >> 7}, {0x92, 62, 90}},
		},
		{
			"note off keeps release velocity",
			Event{Kind: NoteOff, Channel: 4, Note: 67, Velocity: 64},
			[]gomidi.Message{{0x84, 67, 64}},
		},
		{
			"pitch bend extremes",
			Event{Kind: PitchBend, Channel: 15, Bend: BendMax},
			[]gomidi.Message{{0xEF, 0x7F, 0x7F}},
		},
		{
			"zero bend",
			Event{Kind: PitchBend, Channel: 1, Bend: 0},
			[]gomidi.Message{{0xE1, 0x00, 0x00}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.Messages())
		})
	}
	assert.Nil(t, Event{}.Messages())
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "NoteOn{ch:1 note:60 vel:100}", Event{Kind: NoteOn, Note: 60, Velocity: 100}.String())
	assert.Equal(t, "PitchBend{ch:3 bend:8192}", Event{Kind: PitchBend, Channel: 2, Bend: 8192}.String())
}
