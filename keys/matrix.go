// Package keys scans a key matrix and feeds key edges to the translation
// engine.
package keys

import "sync"

// Matrix is a readable grid of key switches.
type Matrix interface {
	Size() (rows, cols int)
	Pressed(row, col int) bool
}

// PadMatrix latches pad presses reported by a grid controller so they can be
// scanned like a wired matrix.
type PadMatrix struct {
	mu    sync.Mutex
	rows  int
	cols  int
	state []bool
}

func NewPadMatrix(rows, cols int) *PadMatrix {
	return &PadMatrix{rows: rows, cols: cols, state: make([]bool, rows*cols)}
}

func (m *PadMatrix) Size() (int, int) { return m.rows, m.cols }

func (m *PadMatrix) Pressed(row, col int) bool {
	if !m.inRange(row, col) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state[row*m.cols+col]
}

// Set records a pad edge. Positions outside the matrix are ignored.
func (m *PadMatrix) Set(row, col int, pressed bool) {
	if !m.inRange(row, col) {
		return
	}
	m.mu.Lock()
	m.state[row*m.cols+col] = pressed
	m.mu.Unlock()
}

// Reset releases every pad, e.g. when the controller is unplugged.
func (m *PadMatrix) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.state {
		m.state[i] = false
	}
}

func (m *PadMatrix) inRange(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}
