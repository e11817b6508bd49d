// Package board wires the translation engine, scanner, transport and LED
// feedback into one running instrument.
package board

import (
	"context"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/sync/errgroup"

	"lattice-board/console"
	"lattice-board/debug"
	"lattice-board/keys"
	"lattice-board/layout"
	"lattice-board/leds"
	"lattice-board/midi"
	"lattice-board/tuning"
)

// LED refresh rate
const ledFPS = 30

// Options configures a Manager. Zero values pick defaults.
type Options struct {
	Board        layout.Board
	Port         midi.PacketPort
	QueueSize    int
	WriteTimeout time.Duration
	Cable        uint8

	Policy       keys.Policy
	ScanInterval time.Duration
	Velocity     uint8

	Brightness float64
	HueOffset  float64
}

// Manager owns the shared state of one board and runs its goroutines.
type Manager struct {
	Board     layout.Board
	Tunables  *tuning.Tunables
	Engine    *tuning.Engine
	Queue     *midi.Queue
	Remote    *midi.RemoteVoices
	Transport *midi.Transport
	Pads      *keys.PadMatrix
	Scanner   *keys.Scanner
	LEDs      *leds.Config

	mu         sync.Mutex
	controller midi.Controller
	prevLEDs   map[[2]int]midi.LEDUpdate

	// Notify the TUI of updates
	UpdateChan chan struct{}
}

func NewManager(opts Options) *Manager {
	b := opts.Board
	if b == nil {
		b = layout.Launchpad()
	}
	port := opts.Port
	if port == nil {
		port = midi.NewLoopbackPort()
	}

	tunables := tuning.NewTunables()
	engine := tuning.NewEngine(b, tunables)
	queue := midi.NewQueue(opts.QueueSize)
	remote := midi.NewRemoteVoices()

	tr := midi.NewTransport(port, queue, remote)
	tr.Cable = opts.Cable
	if opts.WriteTimeout > 0 {
		tr.WriteTimeout = opts.WriteTimeout
	}

	pads := keys.NewPadMatrix(b.Size())
	sc := keys.NewScanner(pads, b, engine, queue)
	sc.Policy = opts.Policy
	if opts.ScanInterval > 0 {
		sc.Interval = opts.ScanInterval
	}
	if opts.Velocity > 0 {
		sc.Velocity = opts.Velocity
	}

	ledCfg := leds.NewConfig()
	if opts.Brightness > 0 {
		ledCfg.SetBrightness(opts.Brightness)
	}
	ledCfg.SetHueOffset(opts.HueOffset)

	m := &Manager{
		Board:      b,
		Tunables:   tunables,
		Engine:     engine,
		Queue:      queue,
		Remote:     remote,
		Transport:  tr,
		Pads:       pads,
		Scanner:    sc,
		LEDs:       ledCfg,
		prevLEDs:   make(map[[2]int]midi.LEDUpdate),
		UpdateChan: make(chan struct{}, 1),
	}
	tr.OnMessage = func(msg gomidi.Message) {
		debug.LogEvery(20, "midi-in", "ignored %v", msg)
	}
	return m
}

// Run runs the transport, scanner and LED loops until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.Transport.Run(ctx) })
	g.Go(func() error { return m.Scanner.Run(ctx) })
	g.Go(func() error { return m.ledLoop(ctx) })
	err := g.Wait()

	m.mu.Lock()
	c := m.controller
	m.mu.Unlock()
	if c != nil {
		c.ClearLEDs()
	}
	return err
}

// Targets exposes the live settings to command interpreters.
func (m *Manager) Targets() console.Targets {
	return console.Targets{Tunables: m.Tunables, LEDs: m.LEDs}
}

// Apply runs one console command byte.
func (m *Manager) Apply(cmd byte) bool {
	ok := m.Targets().Apply(cmd)
	if ok {
		debug.Log("cmd", "%q -> %+v", cmd, m.Tunables.Snapshot())
		m.notifyUpdate()
	}
	return ok
}

// Snapshot collects what the dashboards display.
func (m *Manager) Snapshot() console.Status {
	return console.Status{
		Tuning: m.Tunables.Snapshot(),
		LEDs:   m.LEDs.Snapshot(),
		Held:   console.HeldKeys(m.Scanner.Held.Snapshot(), m.Board.Center()),
		Remote: m.Remote.Snapshot(),
		Stats:  m.Transport.Stats(),
	}
}

// notifyUpdate tells the TUI something changed
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
