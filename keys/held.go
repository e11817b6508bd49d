package keys

import (
	"sync"

	"lattice-board/layout"
)

// MaxHeld bounds the held-key set, matching the active-voice ledger.
const MaxHeld = 16

// Held is the set of keys currently down that produced an event. LED
// rendering and the dashboard read it.
type Held struct {
	mu    sync.Mutex
	coord []layout.Coordinate
}

func (h *Held) Add(c layout.Coordinate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.coord) >= MaxHeld {
		return
	}
	for _, have := range h.coord {
		if have == c {
			return
		}
	}
	h.coord = append(h.coord, c)
}

func (h *Held) Remove(c layout.Coordinate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.coord[:0]
	for _, have := range h.coord {
		if have != c {
			out = append(out, have)
		}
	}
	h.coord = out
}

func (h *Held) Snapshot() []layout.Coordinate {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]layout.Coordinate(nil), h.coord...)
}

func (h *Held) Clear() {
	h.mu.Lock()
	h.coord = h.coord[:0]
	h.mu.Unlock()
}
