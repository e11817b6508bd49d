package layout

const noLED = -1

// table is the precomputed, read-only form every built-in board is reduced to
// at construction time.
type table struct {
	name   string
	rows   int
	cols   int
	center Coordinate

	keys    [][]Coordinate
	present [][]bool
	leds    [][]int // physical (row, col) -> LED index, noLED if none

	ledCoords []Coordinate
	ledUsed   []bool
	coordLED  map[Coordinate]int
}

func newTable(name string, rows, cols int, center Coordinate, numLEDs int,
	keyAt func(row, col int) (Coordinate, bool), ledAt func(row, col int) int) *table {
	t := &table{
		name:      name,
		rows:      rows,
		cols:      cols,
		center:    center,
		keys:      make([][]Coordinate, rows),
		present:   make([][]bool, rows),
		leds:      make([][]int, rows),
		ledCoords: make([]Coordinate, numLEDs),
		ledUsed:   make([]bool, numLEDs),
		coordLED:  make(map[Coordinate]int, numLEDs),
	}
	for r := 0; r < rows; r++ {
		t.keys[r] = make([]Coordinate, cols)
		t.present[r] = make([]bool, cols)
		t.leds[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			t.keys[r][c], t.present[r][c] = keyAt(r, c)
			t.leds[r][c] = ledAt(r, c)
		}
	}
	// reverse LED lookup
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := t.leds[r][c]
			if idx == noLED || idx >= numLEDs || !t.present[r][c] {
				continue
			}
			t.ledCoords[idx] = t.keys[r][c]
			t.ledUsed[idx] = true
			t.coordLED[t.keys[r][c]] = idx
		}
	}
	return t
}

func (t *table) Name() string       { return t.name }
func (t *table) Size() (int, int)   { return t.rows, t.cols }
func (t *table) Center() Coordinate { return t.center }
func (t *table) NumLEDs() int       { return len(t.ledCoords) }

func (t *table) KeyToCoord(row, col int) (Coordinate, bool) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return Coordinate{}, false
	}
	return t.keys[row][col], t.present[row][col]
}

func (t *table) LEDToCoord(idx int) (Coordinate, bool) {
	if idx < 0 || idx >= len(t.ledCoords) || !t.ledUsed[idx] {
		return Coordinate{}, false
	}
	return t.ledCoords[idx], true
}

func (t *table) CoordToLED(c Coordinate) (int, bool) {
	idx, ok := t.coordLED[c]
	return idx, ok
}
