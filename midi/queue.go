package midi

import (
	"context"
	"errors"
)

// DefaultQueueSize is the default event queue depth.
const DefaultQueueSize = 32

var ErrQueueFull = errors.New("midi: event queue full")

// Queue is the bounded hand-off between key scanning and the outbound loop.
// Producers pick their own backpressure policy: Send waits for room, TrySend
// drops.
type Queue struct {
	ch chan Event
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Event, size)}
}

// Send blocks until the event is queued or ctx is done.
func (q *Queue) Send(ctx context.Context, ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues the event if there is room, ErrQueueFull otherwise.
func (q *Queue) TrySend(ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Receive blocks until an event is available or ctx is done.
func (q *Queue) Receive(ctx context.Context) (Event, error) {
	select {
	case ev := <-q.ch:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (q *Queue) Len() int { return len(q.ch) }
func (q *Queue) Cap() int { return cap(q.ch) }
