package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MaxRemoteVoices bounds the remote voice ledger.
const MaxRemoteVoices = 32

// Controllers that silence everything on the receiving side.
const (
	CCAllSoundOff = 120
	CCAllNotesOff = 123
)

// RemoteVoice is a note the host is currently sounding towards us.
type RemoteVoice struct {
	Channel   uint8
	Note      uint8
	Velocity  uint8
	PitchBend uint16
}

// RemoteVoices tracks notes received from the host, for display. The voice
// table and the per-channel bend table are guarded separately.
type RemoteVoices struct {
	mu     sync.Mutex
	voices [MaxRemoteVoices]RemoteVoice
	n      int

	bendMu sync.Mutex
	bends  [16]uint16
}

func NewRemoteVoices() *RemoteVoices {
	r := &RemoteVoices{}
	for i := range r.bends {
		r.bends[i] = BendCenter
	}
	return r
}

// Apply updates the ledger from one inbound message. It reports whether the
// message was one the ledger cares about.
func (r *RemoteVoices) Apply(msg gomidi.Message) bool {
	var ch, key, vel, cc, val uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		if vel == 0 {
			r.remove(ch, key)
		} else {
			r.noteOn(ch, key, vel)
		}
	case msg.GetNoteOff(&ch, &key, &vel):
		r.remove(ch, key)
	case msg.GetPitchBend(&ch, &rel, &abs):
		r.bend(ch, abs)
	case msg.GetControlChange(&ch, &cc, &val):
		if cc != CCAllSoundOff && cc != CCAllNotesOff {
			return false
		}
		r.Clear()
	default:
		return false
	}
	return true
}

func (r *RemoteVoices) noteOn(ch, key, vel uint8) {
	bend := r.ChannelBend(ch)

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.n; i++ {
		if r.voices[i].Channel == ch && r.voices[i].Note == key {
			r.voices[i].Velocity = vel
			r.voices[i].PitchBend = bend
			return
		}
	}
	if r.n == MaxRemoteVoices {
		// full: the voice is simply not shown
		return
	}
	r.voices[r.n] = RemoteVoice{Channel: ch, Note: key, Velocity: vel, PitchBend: bend}
	r.n++
}

func (r *RemoteVoices) remove(ch, key uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := 0
	for i := 0; i < r.n; i++ {
		v := r.voices[i]
		if v.Channel == ch && v.Note == key {
			continue
		}
		r.voices[j] = v
		j++
	}
	r.n = j
}

func (r *RemoteVoices) bend(ch uint8, abs uint16) {
	ch &= 0x0F
	r.bendMu.Lock()
	r.bends[ch] = abs
	r.bendMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.n; i++ {
		if r.voices[i].Channel == ch {
			r.voices[i].PitchBend = abs
		}
	}
}

// Clear drops every remote voice. Channel bends are kept.
func (r *RemoteVoices) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n = 0
}

// ChannelBend returns the last bend received on a channel.
func (r *RemoteVoices) ChannelBend(ch uint8) uint16 {
	r.bendMu.Lock()
	defer r.bendMu.Unlock()
	return r.bends[ch&0x0F]
}

// ChannelBends returns a copy of the whole bend table.
func (r *RemoteVoices) ChannelBends() [16]uint16 {
	r.bendMu.Lock()
	defer r.bendMu.Unlock()
	return r.bends
}

// Snapshot returns a copy of the current voices in arrival order.
func (r *RemoteVoices) Snapshot() []RemoteVoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RemoteVoice(nil), r.voices[:r.n]...)
}

func (r *RemoteVoices) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}
