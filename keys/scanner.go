package keys

import (
	"context"
	"fmt"
	"time"

	"lattice-board/debug"
	"lattice-board/layout"
	"lattice-board/midi"
	"lattice-board/tuning"
)

// Policy decides what a scanner does when the event queue is full.
type Policy uint8

const (
	// PolicyBlock waits for room, as a directly wired matrix does.
	PolicyBlock Policy = iota
	// PolicyDrop discards the event and logs it, as the shift-register
	// scanner does so it never misses a column.
	PolicyDrop
)

func (p Policy) String() string {
	switch p {
	case PolicyBlock:
		return "block"
	case PolicyDrop:
		return "drop"
	}
	return fmt.Sprintf("Policy(%d)", p)
}

// ParsePolicy accepts "block" or "drop"; empty means block.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "block", "direct":
		return PolicyBlock, nil
	case "drop", "shift":
		return PolicyDrop, nil
	}
	return 0, fmt.Errorf("unknown scan policy %q", s)
}

const (
	DefaultVelocity = 100
	DefaultInterval = time.Millisecond
)

type Scanner struct {
	Matrix Matrix
	Board  layout.Board
	Engine *tuning.Engine
	Queue  *midi.Queue
	Held   *Held

	Policy   Policy
	Interval time.Duration
	Velocity uint8

	state []bool
	cols  int
}

func NewScanner(m Matrix, b layout.Board, e *tuning.Engine, q *midi.Queue) *Scanner {
	return &Scanner{
		Matrix:   m,
		Board:    b,
		Engine:   e,
		Queue:    q,
		Held:     &Held{},
		Interval: DefaultInterval,
		Velocity: DefaultVelocity,
	}
}

// Run scans until ctx is done.
func (s *Scanner) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	debug.Log("keys", "scanner started (%s, policy %s, every %s)", s.Board.Name(), s.Policy, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Scan(ctx); err != nil {
				return nil
			}
		}
	}
}

// Scan makes one pass over the matrix and handles every changed key. It
// only fails when ctx ends while a blocking send is waiting.
func (s *Scanner) Scan(ctx context.Context) error {
	rows, cols := s.Matrix.Size()
	if len(s.state) != rows*cols {
		s.state = make([]bool, rows*cols)
		s.cols = cols
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			pressed := s.Matrix.Pressed(r, c)
			i := r*s.cols + c
			if pressed == s.state[i] {
				continue
			}
			s.state[i] = pressed
			if err := s.Edge(ctx, r, c, pressed); err != nil {
				return err
			}
		}
	}
	return nil
}

// Edge handles a single key change at a physical position. Positions with no
// key, and edges the engine declines, are ignored.
func (s *Scanner) Edge(ctx context.Context, row, col int, pressed bool) error {
	coord, ok := s.Board.KeyToCoord(row, col)
	if !ok {
		return nil
	}
	velocity := s.Velocity
	if velocity == 0 {
		velocity = DefaultVelocity
	}
	ev, ok := s.Engine.Translate(coord, velocity, pressed)
	if !ok {
		return nil
	}

	switch s.Policy {
	case PolicyDrop:
		if err := s.Queue.TrySend(ev); err != nil {
			debug.Log("keys", "MIDI queue full, dropping %v", ev)
		}
	default:
		if err := s.Queue.Send(ctx, ev); err != nil {
			return err
		}
	}

	if s.Held != nil {
		if pressed {
			s.Held.Add(coord)
		} else {
			s.Held.Remove(coord)
		}
	}
	return nil
}
