package layout

import "fmt"

// Coordinate is a key position on the isomorphic lattice.
//
// Going one step right (X+1) is a major second (2 fifths, down an octave).
// Going one step up (Y-1) is an ascending perfect fourth (-1 fifth, up an octave).
type Coordinate struct {
	X, Y int8
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Board is a physical key/LED arrangement. Everything board-specific lives
// behind this interface; the engine only asks for the center and whether a
// physical key maps to a lattice coordinate.
type Board interface {
	Name() string
	Size() (rows, cols int)

	// KeyToCoord converts physical matrix position to a lattice coordinate.
	// ok is false where the matrix has no key.
	KeyToCoord(row, col int) (c Coordinate, ok bool)

	// Center is the coordinate that sounds middle C (MIDI 60).
	Center() Coordinate

	NumLEDs() int
	LEDToCoord(idx int) (Coordinate, bool)
	CoordToLED(c Coordinate) (int, bool)
}

// CoordToMIDI is the plain 12-TET note for a coordinate: 60 + 2dx - 5dy,
// clamped to the MIDI range.
func CoordToMIDI(c, center Coordinate) uint8 {
	dx := int(c.X) - int(center.X)
	dy := int(c.Y) - int(center.Y)
	note := 60 + dx*2 - dy*5
	if note < 0 {
		return 0
	}
	if note > 127 {
		return 127
	}
	return uint8(note)
}

// Coords lists every lattice coordinate reachable from the key matrix, in
// row-major scan order.
func Coords(b Board) []Coordinate {
	rows, cols := b.Size()
	var out []Coordinate
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if coord, ok := b.KeyToCoord(r, c); ok {
				out = append(out, coord)
			}
		}
	}
	return out
}

// ByName returns one of the built-in boards.
func ByName(name string) (Board, error) {
	switch name {
	case "", "launchpad":
		return Launchpad(), nil
	case "prototype":
		return Prototype(), nil
	case "5x25":
		return Zigzag5x25(), nil
	}
	return nil, fmt.Errorf("unknown board %q", name)
}
