package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Packet is a USB-MIDI class event packet: cable number in the high nibble of
// byte 0, code index number in the low nibble, then the MIDI message.
type Packet [4]byte

// Code index numbers for channel voice messages.
const (
	CINNoteOff         = 0x8
	CINNoteOn          = 0x9
	CINPolyPressure    = 0xA
	CINControlChange   = 0xB
	CINProgramChange   = 0xC
	CINChannelPressure = 0xD
	CINPitchBend       = 0xE
	CINSingleByte      = 0xF
)

// CodeIndex derives the code index number from a MIDI status byte.
func CodeIndex(status byte) byte {
	switch status & 0xF0 {
	case 0x80, 0x90, 0xA0, 0xB0, 0xC0, 0xD0, 0xE0:
		return status >> 4
	}
	return CINSingleByte
}

func (p Packet) Cable() uint8 { return p[0] >> 4 }
func (p Packet) CIN() uint8   { return p[0] & 0x0F }

// Message returns the MIDI message carried by the packet, trimmed to the
// length its status byte calls for.
func (p Packet) Message() gomidi.Message {
	n := messageLen(p[1])
	if n == 0 {
		return nil
	}
	return gomidi.Message(append([]byte(nil), p[1:1+n]...))
}

func (p Packet) String() string {
	return fmt.Sprintf("%02X %02X %02X %02X", p[0], p[1], p[2], p[3])
}

// EncodePacket frames a single (at most 3 byte) MIDI message for the given
// cable.
func EncodePacket(cable uint8, msg gomidi.Message) (Packet, error) {
	var p Packet
	if len(msg) == 0 || len(msg) > 3 {
		return p, fmt.Errorf("midi: cannot frame %d byte message", len(msg))
	}
	if msg[0]&0x80 == 0 {
		return p, fmt.Errorf("midi: message starts with data byte %#02x", msg[0])
	}
	p[0] = (cable&0x0F)<<4 | CodeIndex(msg[0])
	copy(p[1:], msg)
	return p, nil
}

// DecodePackets splits raw endpoint data into 4-byte packets and returns the
// channel voice messages they carry. Zero padding groups and trailing partial
// groups are skipped; groups that do not start with a channel voice status
// are counted as rejected.
func DecodePackets(data []byte) (msgs []gomidi.Message, rejected int) {
	for len(data) >= 4 {
		var p Packet
		copy(p[:], data[:4])
		data = data[4:]
		if p[0] == 0 {
			continue
		}
		msg := p.Message()
		if msg == nil {
			rejected++
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, rejected
}

// messageLen is the length of a channel voice message, or 0 if status is not
// a channel voice status byte.
func messageLen(status byte) int {
	switch status & 0xF0 {
	case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
		return 3
	case 0xC0, 0xD0:
		return 2
	}
	return 0
}
