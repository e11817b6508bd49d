package mpe

import (
	"sync"

	"lattice-board/layout"
)

// LedgerCapacity bounds the number of coordinates sounding on lent channels.
const LedgerCapacity = 16

// Entry pairs a held coordinate with the channel it was given.
type Entry struct {
	Coord   layout.Coordinate
	Channel uint8
}

// Ledger is the active-voice ledger: a fixed array with an occupancy count.
// Each coordinate appears at most once.
type Ledger struct {
	mu      sync.Mutex
	entries [LedgerCapacity]Entry
	n       int
}

// Push records coord on ch. It reports false, changing nothing, when the
// ledger is full or coord is already present.
func (l *Ledger) Push(coord layout.Coordinate, ch uint8) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.n == LedgerCapacity || l.indexLocked(coord) >= 0 {
		return false
	}
	l.entries[l.n] = Entry{Coord: coord, Channel: ch}
	l.n++
	return true
}

// Remove deletes coord's entry and returns its channel. The last entry is
// swapped into the hole, so order is not preserved.
func (l *Ledger) Remove(coord layout.Coordinate) (uint8, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(coord)
	if i < 0 {
		return 0, false
	}
	ch := l.entries[i].Channel
	l.n--
	l.entries[i] = l.entries[l.n]
	l.entries[l.n] = Entry{}
	return ch, true
}

// Lookup returns coord's channel without removing it.
func (l *Ledger) Lookup(coord layout.Coordinate) (uint8, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(coord); i >= 0 {
		return l.entries[i].Channel, true
	}
	return 0, false
}

func (l *Ledger) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries[:l.n]...)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

func (l *Ledger) indexLocked(coord layout.Coordinate) int {
	for i := 0; i < l.n; i++ {
		if l.entries[i].Coord == coord {
			return i
		}
	}
	return -1
}
