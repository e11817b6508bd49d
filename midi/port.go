package midi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"lattice-board/debug"
)

var ErrPortClosed = errors.New("midi: port closed")

// ErrWriteInFlight reports a write whose deadline passed after the driver
// had already taken the message. It will still reach the wire, in order.
var ErrWriteInFlight = errors.New("midi: write outlived its deadline in the driver")

// inboundDepth bounds packets buffered between a driver callback and the
// inbound loop.
const inboundDepth = 64

// writeDepth bounds writes waiting behind a slow driver send.
const writeDepth = 8

const (
	writePending int32 = iota
	writeClaimed
	writeCancelled
)

type writeReq struct {
	msg   gomidi.Message
	state atomic.Int32
	done  chan error
}

// DriverPort exposes a gomidi driver in/out pair as a USB-MIDI packet port,
// so the transport can talk to a synth or DAW on the host exactly as it
// would to a USB host.
type DriverPort struct {
	name  string
	cable uint8
	send  func(gomidi.Message) error
	stop  func()

	writes    chan *writeReq
	in        chan Packet
	closeOnce sync.Once
	done      chan struct{}
}

func newDriverPort(cable uint8, send func(gomidi.Message) error) *DriverPort {
	p := &DriverPort{
		cable:  cable,
		send:   send,
		writes: make(chan *writeReq, writeDepth),
		in:     make(chan Packet, inboundDepth),
		done:   make(chan struct{}),
	}
	if send != nil {
		go p.writeLoop()
	}
	return p
}

// OpenDriverPort opens out for sending and, if in is non-nil, listens on it.
func OpenDriverPort(in drivers.In, out drivers.Out, cable uint8) (*DriverPort, error) {
	var send func(gomidi.Message) error
	if out != nil {
		var err error
		send, err = gomidi.SendTo(out)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
	}
	p := newDriverPort(cable, send)
	if out != nil {
		p.name = out.String()
	}
	if in != nil {
		stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
			pkt, err := EncodePacket(p.cable, msg)
			if err != nil {
				// sysex and realtime are not ours to track
				return
			}
			select {
			case p.in <- pkt:
			default:
				debug.LogEvery(20, "midi-in", "inbound buffer full, dropping %v", msg)
			}
		})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open input: %w", err)
		}
		p.stop = stop
	}
	return p, nil
}

// OpenDriverPortByName finds ports whose names contain the given substrings
// (case-insensitive). An empty inName skips the input side.
func OpenDriverPortByName(inName, outName string, cable uint8) (*DriverPort, error) {
	var out drivers.Out
	for _, port := range gomidi.GetOutPorts() {
		if containsIgnoreCase(port.String(), outName) {
			out = port
			break
		}
	}
	if out == nil {
		return nil, fmt.Errorf("no MIDI output matching %q", outName)
	}
	var in drivers.In
	if inName != "" {
		for _, port := range gomidi.GetInPorts() {
			if containsIgnoreCase(port.String(), inName) {
				in = port
				break
			}
		}
		if in == nil {
			return nil, fmt.Errorf("no MIDI input matching %q", inName)
		}
	}
	return OpenDriverPort(in, out, cable)
}

func (p *DriverPort) String() string { return p.name }

// WritePacket hands the packet's message to the port's single writer, so
// the wire sees messages in call order. Drivers can block indefinitely
// (CoreMIDI is known to hang): a write whose ctx expires before the writer
// takes it is never sent, and one that expires inside the driver returns
// ErrWriteInFlight.
func (p *DriverPort) WritePacket(ctx context.Context, pkt Packet) error {
	if p.send == nil {
		return ErrPortClosed
	}
	msg := pkt.Message()
	if msg == nil {
		return fmt.Errorf("midi: packet %v carries no channel message", pkt)
	}
	select {
	case <-p.done:
		return ErrPortClosed
	default:
	}
	req := &writeReq{msg: msg, done: make(chan error, 1)}
	select {
	case p.writes <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPortClosed
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		if req.state.CompareAndSwap(writePending, writeCancelled) {
			return ctx.Err()
		}
		select {
		case err := <-req.done:
			return err
		default:
			return ErrWriteInFlight
		}
	case <-p.done:
		req.state.CompareAndSwap(writePending, writeCancelled)
		return ErrPortClosed
	}
}

func (p *DriverPort) writeLoop() {
	for {
		select {
		case req := <-p.writes:
			select {
			case <-p.done:
				return
			default:
			}
			if !req.state.CompareAndSwap(writePending, writeClaimed) {
				continue
			}
			req.done <- p.send(req.msg)
		case <-p.done:
			return
		}
	}
}

// ReadPacket waits for one packet, then copies as many buffered packets as
// fit in buf.
func (p *DriverPort) ReadPacket(ctx context.Context, buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, errors.New("midi: read buffer shorter than a packet")
	}
	var pkt Packet
	select {
	case pkt = <-p.in:
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-p.done:
		return 0, ErrPortClosed
	}
	n := copy(buf, pkt[:])
	for n+4 <= len(buf) {
		select {
		case pkt = <-p.in:
			n += copy(buf[n:], pkt[:])
		default:
			return n, nil
		}
	}
	return n, nil
}

func (p *DriverPort) Close() error {
	p.closeOnce.Do(func() {
		if p.stop != nil {
			p.stop()
		}
		close(p.done)
	})
	return nil
}

// LoopbackPort is an in-memory packet port. Written packets are recorded;
// inbound data is whatever Inject supplies. It can be stalled to mimic a host
// that stops reading.
type LoopbackPort struct {
	mu      sync.Mutex
	sent    []Packet
	stalled bool
	failErr error

	in chan []byte
}

func NewLoopbackPort() *LoopbackPort {
	return &LoopbackPort{in: make(chan []byte, inboundDepth)}
}

func (p *LoopbackPort) WritePacket(ctx context.Context, pkt Packet) error {
	p.mu.Lock()
	stalled, failErr := p.stalled, p.failErr
	p.mu.Unlock()

	if failErr != nil {
		return failErr
	}
	if stalled {
		<-ctx.Done()
		return ctx.Err()
	}
	p.mu.Lock()
	p.sent = append(p.sent, pkt)
	p.mu.Unlock()
	return nil
}

func (p *LoopbackPort) ReadPacket(ctx context.Context, buf []byte) (int, error) {
	select {
	case data := <-p.in:
		return copy(buf, data), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Inject queues raw endpoint data for the next ReadPacket.
func (p *LoopbackPort) Inject(data []byte) {
	p.in <- append([]byte(nil), data...)
}

// SetStalled makes writes block until their deadline.
func (p *LoopbackPort) SetStalled(stalled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stalled = stalled
}

// SetFailure makes every write fail with err (nil restores normal writes).
func (p *LoopbackPort) SetFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failErr = err
}

// Sent returns a copy of every packet written so far.
func (p *LoopbackPort) Sent() []Packet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Packet(nil), p.sent...)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
