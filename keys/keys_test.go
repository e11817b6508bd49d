package keys

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice-board/layout"
	"lattice-board/midi"
	"lattice-board/tuning"
)

func newTestScanner(queueSize int) (*Scanner, *PadMatrix) {
	b := layout.Launchpad()
	rows, cols := b.Size()
	pads := NewPadMatrix(rows, cols)
	s := NewScanner(pads, b, tuning.NewEngine(b, nil), midi.NewQueue(queueSize))
	return s, pads
}

func TestScanEmitsEdges(t *testing.T) {
	s, pads := newTestScanner(8)
	ctx := context.Background()

	pads.Set(4, 3, true)
	require.NoError(t, s.Scan(ctx))
	require.Equal(t, 1, s.Queue.Len())
	assert.Equal(t, []layout.Coordinate{{X: 3, Y: 3}}, s.Held.Snapshot())

	// no change, no event
	require.NoError(t, s.Scan(ctx))
	assert.Equal(t, 1, s.Queue.Len())

	pads.Set(4, 3, false)
	require.NoError(t, s.Scan(ctx))
	assert.Empty(t, s.Held.Snapshot())

	on, err := s.Queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, midi.Event{Kind: midi.NoteOn, Channel: 4, Note: 60, Velocity: DefaultVelocity}, on)
	off, err := s.Queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, midi.NoteOff, off.Kind)
}

func TestDropPolicyNeverBlocks(t *testing.T) {
	s, pads := newTestScanner(1)
	s.Policy = PolicyDrop

	pads.Set(0, 0, true)
	pads.Set(0, 1, true)
	pads.Set(0, 2, true)
	require.NoError(t, s.Scan(context.Background()))
	assert.Equal(t, 1, s.Queue.Len())
	// held keys are tracked even when the event was dropped
	assert.Len(t, s.Held.Snapshot(), 3)
}

func TestBlockPolicyWaits(t *testing.T) {
	s, pads := newTestScanner(1)
	pads.Set(0, 0, true)
	pads.Set(0, 1, true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Scan(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, s.Queue.Len())
}

func TestEdgeIgnoresMissingKey(t *testing.T) {
	b := layout.Prototype()
	s := NewScanner(NewPadMatrix(b.Size()), b, tuning.NewEngine(b, nil), midi.NewQueue(4))
	rows, cols := b.Size()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if _, ok := b.KeyToCoord(r, c); !ok {
				require.NoError(t, s.Edge(context.Background(), r, c, true))
				assert.Zero(t, s.Queue.Len())
				return
			}
		}
	}
	t.Fatal("prototype board has no gaps")
}

func TestPadMatrixBounds(t *testing.T) {
	m := NewPadMatrix(2, 2)
	m.Set(5, 5, true)
	m.Set(-1, 0, true)
	assert.False(t, m.Pressed(5, 5))
	m.Set(1, 1, true)
	assert.True(t, m.Pressed(1, 1))
	m.Reset()
	assert.False(t, m.Pressed(1, 1))
}

func TestHeldCapacity(t *testing.T) {
	var h Held
	for i := 0; i < MaxHeld+4; i++ {
		h.Add(layout.Coordinate{X: int8(i)})
	}
	h.Add(layout.Coordinate{X: 0})
	assert.Len(t, h.Snapshot(), MaxHeld)
	h.Remove(layout.Coordinate{X: 0})
	assert.Len(t, h.Snapshot(), MaxHeld-1)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("drop")
	require.NoError(t, err)
	assert.Equal(t, PolicyDrop, p)
	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyBlock, p)
	_, err = ParsePolicy("sideways")
	assert.Error(t, err)
}
