package tuning

import (
	"fmt"
	"sync"

	"golang.org/x/exp/constraints"
)

type Mode uint8

const (
	// Fifths puts octaves on channels and fifths on note numbers, for
	// synths that do their own tuning.
	Fifths Mode = iota
	// Standard plays real pitches: plain notes when the fifth is 700 cents,
	// MPE bends otherwise.
	Standard
)

func (m Mode) String() string {
	switch m {
	case Fifths:
		return "Fifths"
	case Standard:
		return "Standard"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

const (
	DefaultFifthSize = 697.0
	PureFifth        = 700.0
	MinFifthSize     = 600.0
	MaxFifthSize     = 800.0

	DefaultPitchBendRange = 1.0
	MinPitchBendRange     = 0.1
	MaxPitchBendRange     = 96.0
)

// Params is a consistent copy of the tunables.
type Params struct {
	Mode           Mode
	FifthSize      float64
	PitchBendRange float64
}

// Tunables holds the live tuning parameters. They always start at their
// defaults and are never saved.
type Tunables struct {
	mu sync.Mutex
	p  Params
}

func NewTunables() *Tunables {
	return &Tunables{p: Params{
		Mode:           Fifths,
		FifthSize:      DefaultFifthSize,
		PitchBendRange: DefaultPitchBendRange,
	}}
}

func (t *Tunables) Snapshot() Params {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}

func (t *Tunables) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p.Mode
}

func (t *Tunables) SetMode(m Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Mode = m
}

// ToggleMode flips between Fifths and Standard and returns the new mode.
func (t *Tunables) ToggleMode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.p.Mode == Fifths {
		t.p.Mode = Standard
	} else {
		t.p.Mode = Fifths
	}
	return t.p.Mode
}

func (t *Tunables) FifthSize() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p.FifthSize
}

func (t *Tunables) AdjustFifthSize(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.FifthSize = clamp(t.p.FifthSize+delta, MinFifthSize, MaxFifthSize)
	return t.p.FifthSize
}

func (t *Tunables) SetFifthSize(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.FifthSize = clamp(v, MinFifthSize, MaxFifthSize)
}

func (t *Tunables) PitchBendRange() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p.PitchBendRange
}

func (t *Tunables) AdjustPitchBendRange(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.PitchBendRange = clamp(t.p.PitchBendRange+delta, MinPitchBendRange, MaxPitchBendRange)
	return t.p.PitchBendRange
}

func (t *Tunables) SetPitchBendRange(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.PitchBendRange = clamp(v, MinPitchBendRange, MaxPitchBendRange)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
