package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestRemoteNoteThenAllNotesOff(t *testing.T) {
	r := NewRemoteVoices()
	assert.True(t, r.Apply(gomidi.NoteOn(0, 60, 100)))
	require.Equal(t, 1, r.Len())
	assert.True(t, r.Apply(gomidi.ControlChange(0, CCAllNotesOff, 0)))
	assert.Zero(t, r.Len())
}

func TestRemoteAllSoundOff(t *testing.T) {
	r := NewRemoteVoices()
	r.Apply(gomidi.NoteOn(0, 60, 100))
	r.Apply(gomidi.NoteOn(5, 61, 100))
	r.Apply(gomidi.ControlChange(9, CCAllSoundOff, 0))
	assert.Zero(t, r.Len())
	assert.False(t, r.Apply(gomidi.ControlChange(0, 7, 100)), "volume is not ours")
}

func TestRemoteUpdateInPlace(t *testing.T) {
	r := NewRemoteVoices()
	r.Apply(gomidi.NoteOn(1, 64, 100))
	r.Apply(gomidi.NoteOn(1, 67, 80))
	r.Apply(gomidi.NoteOn(1, 64, 20))
	assert.Equal(t, []RemoteVoice{
		{Channel: 1, Note: 64, Velocity: 20, PitchBend: BendCenter},
		{Channel: 1, Note: 67, Velocity: 80, PitchBend: BendCenter},
	}, r.Snapshot())
}

func TestRemoteRemoveKeepsOrder(t *testing.T) {
	r := NewRemoteVoices()
	for n := uint8(60); n < 64; n++ {
		r.Apply(gomidi.NoteOn(0, n, 100))
	}
	r.Apply(gomidi.NoteOff(0, 61))
	r.Apply(gomidi.NoteOn(0, 62, 0))
	got := r.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, uint8(60), got[0].Note)
	assert.Equal(t, uint8(63), got[1].Note)

	// releasing an unknown note changes nothing
	r.Apply(gomidi.NoteOff(3, 60))
	assert.Equal(t, 2, r.Len())
}

func TestRemoteFullDrops(t *testing.T) {
	r := NewRemoteVoices()
	for i := 0; i < MaxRemoteVoices+5; i++ {
		r.Apply(gomidi.NoteOn(uint8(i%16), uint8(40+i), 100))
	}
	assert.Equal(t, MaxRemoteVoices, r.Len())
}

func TestRemoteBend(t *testing.T) {
	r := NewRemoteVoices()
	r.Apply(gomidi.NoteOn(2, 60, 100))
	r.Apply(gomidi.NoteOn(3, 60, 100))
	assert.True(t, r.Apply(gomidi.Pitchbend(2, 1000)))

	assert.Equal(t, uint16(9192), r.ChannelBend(2))
	assert.Equal(t, BendCenter, r.ChannelBend(3))
	v := r.Snapshot()
	assert.Equal(t, uint16(9192), v[0].PitchBend)
	assert.Equal(t, BendCenter, v[1].PitchBend)

	// a later note on a bent channel starts bent
	r.Apply(gomidi.NoteOn(2, 72, 100))
	v = r.Snapshot()
	assert.Equal(t, uint16(9192), v[2].PitchBend)

	// clearing voices keeps the bend table
	r.Clear()
	assert.Equal(t, uint16(9192), r.ChannelBends()[2])
}
