package midi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueTrySendFull(t *testing.T) {
	q := NewQueue(2)
	require.NoError(t, q.TrySend(Event{Kind: NoteOn, Note: 1}))
	require.NoError(t, q.TrySend(Event{Kind: NoteOn, Note: 2}))
	assert.ErrorIs(t, q.TrySend(Event{Kind: NoteOn, Note: 3}), ErrQueueFull)
	assert.Equal(t, 2, q.Len())

	ev, err := q.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(1), ev.Note)
}

func TestQueueSendBlocksUntilRoom(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Send(context.Background(), Event{Note: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Send(ctx, Event{Note: 2}), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() { done <- q.Send(context.Background(), Event{Note: 3}) }()
	_, err := q.Receive(context.Background())
	require.NoError(t, err)
	require.NoError(t, <-done)
	ev, _ := q.Receive(context.Background())
	assert.Equal(t, uint8(3), ev.Note)
}

func TestQueueDefaultSize(t *testing.T) {
	assert.Equal(t, DefaultQueueSize, NewQueue(0).Cap())
}
