package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestEncodePacket(t *testing.T) {
	p, err := EncodePacket(0, gomidi.NoteOn(0, 60, 100))
	require.NoError(t, err)
	assert.Equal(t, Packet{0x09, 0x90, 60, 100}, p)

	p, err = EncodePacket(1, gomidi.Pitchbend(3, 0))
	require.NoError(t, err)
	assert.Equal(t, Packet{0x1E, 0xE3, 0x00, 0x40}, p)
	assert.Equal(t, uint8(1), p.Cable())
	assert.Equal(t, uint8(CINPitchBend), p.CIN())

	p, err = EncodePacket(0, gomidi.ProgramChange(2, 7))
	require.NoError(t, err)
	assert.Equal(t, Packet{0x0C, 0xC2, 7, 0}, p)

	_, err = EncodePacket(0, gomidi.Message{})
	assert.Error(t, err)
	_, err = EncodePacket(0, gomidi.Message{0x40, 0x40})
	assert.Error(t, err)
	_, err = EncodePacket(0, gomidi.Message{0xF0, 1, 2, 3, 0xF7})
	assert.Error(t, err)
}

func TestCodeIndex(t *testing.T) {
	assert.Equal(t, byte(CINNoteOff), CodeIndex(0x85))
	assert.Equal(t, byte(CINControlChange), CodeIndex(0xB0))
	assert.Equal(t, byte(CINSingleByte), CodeIndex(0xF8))
}

func TestDecodePackets(t *testing.T) {
	data := []byte{
		0x09, 0x90, 60, 100, // note on
		0x00, 0x00, 0x00, 0x00, // padding
		0x0F, 0xF8, 0x00, 0x00, // clock: rejected
		0x0B, 0xB0, 123, 0, // all notes off
		0x08, 0x80, // partial trailing group
	}
	msgs, rejected := DecodePackets(data)
	assert.Equal(t, 1, rejected)
	require.Len(t, msgs, 2)
	assert.Equal(t, gomidi.Message{0x90, 60, 100}, msgs[0])
	assert.Equal(t, gomidi.Message{0xB0, 123, 0}, msgs[1])
}

func TestPacketMessageTrimmed(t *testing.T) {
	p := Packet{0x0D, 0xD4, 0x33, 0x55}
	assert.Equal(t, gomidi.Message{0xD4, 0x33}, p.Message())
	assert.Nil(t, Packet{0x0F, 0xFE, 0, 0}.Message())
}
