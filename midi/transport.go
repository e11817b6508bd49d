package midi

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/sync/errgroup"

	"lattice-board/debug"
)

// DefaultWriteTimeout bounds a single packet write. A host that stops polling
// the endpoint costs us at most this much per message.
const DefaultWriteTimeout = 10 * time.Millisecond

// readRetryDelay keeps a failing port from spinning the inbound loop.
const readRetryDelay = 100 * time.Millisecond

// PacketPort is the USB-MIDI endpoint pair.
type PacketPort interface {
	// WritePacket sends one packet. It must give up when ctx is done.
	WritePacket(ctx context.Context, p Packet) error
	// ReadPacket blocks until at least one packet arrives and copies raw
	// endpoint data (a multiple of 4 bytes) into buf.
	ReadPacket(ctx context.Context, buf []byte) (int, error)
}

// Stats counts transport outcomes.
type Stats struct {
	Sent     uint64
	Dropped  uint64
	Received uint64
	Rejected uint64
}

// Transport runs the outbound encoder and inbound decoder loops.
type Transport struct {
	Port   PacketPort
	Queue  *Queue
	Remote *RemoteVoices

	Cable        uint8
	WriteTimeout time.Duration

	// OnMessage, if set, sees every decoded inbound message the remote
	// ledger did not consume.
	OnMessage func(gomidi.Message)

	sent, dropped, received, rejected atomic.Uint64
}

func NewTransport(port PacketPort, q *Queue, remote *RemoteVoices) *Transport {
	return &Transport{
		Port:         port,
		Queue:        q,
		Remote:       remote,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// Run runs both loops until ctx is done. A stalled write never holds up the
// inbound side and vice versa.
func (t *Transport) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.RunOutbound(ctx) })
	g.Go(func() error { return t.RunInbound(ctx) })
	return g.Wait()
}

// RunOutbound drains the queue onto the port.
func (t *Transport) RunOutbound(ctx context.Context) error {
	debug.Log("midi-out", "outbound loop started")
	for {
		ev, err := t.Queue.Receive(ctx)
		if err != nil {
			return nil
		}
		t.Send(ctx, ev)
	}
}

// Send writes every message of one event. Each message is attempted once;
// failures are logged and dropped.
func (t *Transport) Send(ctx context.Context, ev Event) {
	for _, msg := range ev.Messages() {
		t.writeMessage(ctx, msg)
	}
}

func (t *Transport) writeMessage(ctx context.Context, msg gomidi.Message) {
	p, err := EncodePacket(t.Cable, msg)
	if err != nil {
		t.dropped.Add(1)
		debug.Log("midi-out", "encode error while sending %v: %v", msg, err)
		return
	}

	timeout := t.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err = t.Port.WritePacket(wctx, p)
	switch {
	case err == nil:
		t.sent.Add(1)
	case errors.Is(err, ErrWriteInFlight):
		t.sent.Add(1)
		debug.Log("midi-out", "slow driver write while sending %v", msg)
	case errors.Is(err, context.DeadlineExceeded):
		t.dropped.Add(1)
		debug.Log("midi-out", "packet write timeout (host stalled?) while sending %v", msg)
	default:
		t.dropped.Add(1)
		debug.Log("midi-out", "packet write failure while sending %v: %v", msg, err)
	}
}

// RunInbound reads packets from the port into the remote voice ledger.
func (t *Transport) RunInbound(ctx context.Context) error {
	debug.Log("midi-in", "inbound loop started")
	buf := make([]byte, 64)
	for {
		n, err := t.Port.ReadPacket(ctx, buf)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			debug.LogEvery(50, "midi-in", "read error: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readRetryDelay):
			}
			continue
		}
		t.Receive(buf[:n])
	}
}

// Receive decodes raw endpoint data and applies it.
func (t *Transport) Receive(data []byte) {
	msgs, rejected := DecodePackets(data)
	if rejected > 0 {
		t.rejected.Add(uint64(rejected))
		debug.Log("midi-in", "rejected %d packet(s) in % X", rejected, data)
	}
	for _, msg := range msgs {
		t.received.Add(1)
		if t.Remote != nil && t.Remote.Apply(msg) {
			continue
		}
		if t.OnMessage != nil {
			t.OnMessage(msg)
		}
	}
}

func (t *Transport) Stats() Stats {
	return Stats{
		Sent:     t.sent.Load(),
		Dropped:  t.dropped.Load(),
		Received: t.received.Load(),
		Rejected: t.rejected.Load(),
	}
}
