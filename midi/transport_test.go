package midi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"lattice-board/debug"
)

func newLoopbackTransport() (*Transport, *LoopbackPort) {
	port := NewLoopbackPort()
	tr := NewTransport(port, NewQueue(DefaultQueueSize), NewRemoteVoices())
	tr.WriteTimeout = 5 * time.Millisecond
	return tr, port
}

func TestSendMpeNoteOnIsBendThenNote(t *testing.T) {
	tr, port := newLoopbackTransport()
	tr.Send(context.Background(), Event{Kind: MpeNoteOn, Channel: 3, Note: 61, Velocity: 100, Bend: 9000})

	sent := port.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, uint8(CINPitchBend), sent[0].CIN())
	assert.Equal(t, uint8(CINNoteOn), sent[1].CIN())
	assert.Equal(t, byte(0xE3), sent[0][1])
	assert.Equal(t, byte(0x93), sent[1][1])

	var ch uint8
	var rel int16
	var abs uint16
	require.True(t, sent[0].Message().GetPitchBend(&ch, &rel, &abs))
	assert.Equal(t, uint16(9000), abs)
}

func TestSendUsesCable(t *testing.T) {
	tr, port := newLoopbackTransport()
	tr.Cable = 2
	tr.Send(context.Background(), Event{Kind: NoteOff, Channel: 0, Note: 60, Velocity: 100})
	sent := port.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, Packet{0x28, 0x80, 60, 100}, sent[0])
}

func TestStalledHostDropsWithoutBlockingInbound(t *testing.T) {
	tr, port := newLoopbackTransport()
	port.SetStalled(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	require.NoError(t, tr.Queue.TrySend(Event{Kind: NoteOn, Channel: 0, Note: 60, Velocity: 100}))
	port.Inject([]byte{0x09, 0x91, 64, 90})

	require.Eventually(t, func() bool { return tr.Stats().Dropped == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return tr.Remote.Len() == 1 }, time.Second, time.Millisecond)
	assert.Empty(t, port.Sent())

	// the host comes back: later events go out, nothing is retried
	port.SetStalled(false)
	require.NoError(t, tr.Queue.TrySend(Event{Kind: NoteOff, Channel: 0, Note: 60, Velocity: 100}))
	require.Eventually(t, func() bool { return len(port.Sent()) == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("transport did not stop")
	}
}

type blockedWriter struct{ release chan struct{} }

func (w blockedWriter) Write(p []byte) (int, error) {
	<-w.release
	return len(p), nil
}

func TestStalledLogMirrorDoesNotBlockSend(t *testing.T) {
	w := blockedWriter{release: make(chan struct{})}
	defer close(w.release)
	debug.SetMirror(w)
	defer debug.SetMirror(nil)

	tr, port := newLoopbackTransport()
	port.SetStalled(true)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 600; i++ {
			tr.Send(context.Background(), Event{Kind: NoteOff, Channel: 0, Note: 60, Velocity: 0})
			if i == 0 {
				port.SetStalled(false)
				port.SetFailure(errors.New("usb gone"))
			}
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked behind the log mirror")
	}
	assert.Equal(t, uint64(600), tr.Stats().Dropped)
}

func TestWriteFailureDrops(t *testing.T) {
	tr, port := newLoopbackTransport()
	port.SetFailure(errors.New("usb gone"))
	tr.Send(context.Background(), Event{Kind: PitchBend, Channel: 1, Bend: 100})
	assert.Equal(t, Stats{Dropped: 1}, tr.Stats())
}

func TestReceiveForwardsUnhandled(t *testing.T) {
	tr, _ := newLoopbackTransport()
	var other []gomidi.Message
	tr.OnMessage = func(m gomidi.Message) { other = append(other, m) }

	tr.Receive([]byte{
		0x09, 0x90, 60, 100,
		0x0B, 0xB0, 1, 64, // mod wheel
		0x0F, 0xF8, 0, 0,
	})
	assert.Equal(t, 1, tr.Remote.Len())
	require.Len(t, other, 1)
	assert.Equal(t, gomidi.Message{0xB0, 1, 64}, other[0])
	assert.Equal(t, Stats{Received: 2, Rejected: 1}, tr.Stats())
}
