package layout

// Prototype is the 19-key hand-wired board (5 rows x 7 cols, direct GPIO).
func Prototype() Board {
	// 1 = key present
	presence := [5][7]uint8{
		{0, 1, 1, 0, 0, 0, 0},
		{1, 1, 1, 1, 1, 0, 0},
		{1, 1, 1, 1, 1, 1, 1},
		{0, 0, 0, 1, 1, 1, 1},
		{0, 0, 0, 0, 0, 1, 0},
	}
	const x = noLED
	ledMatrix := [5][7]int{
		{x, 0, 1, x, x, x, x},
		{2, 3, 4, 5, 6, x, x},
		{7, 8, 9, 10, 11, 12, 13},
		{x, x, x, 14, 15, 16, 17},
		{x, x, x, x, x, 18, x},
	}
	return newTable("prototype", 5, 7, Coordinate{X: 3, Y: 2}, 19,
		func(row, col int) (Coordinate, bool) {
			if presence[row][col] != 1 {
				return Coordinate{}, false
			}
			return Coordinate{X: int8(col), Y: int8(row)}, true
		},
		func(row, col int) int { return ledMatrix[row][col] },
	)
}

// Each PCB row of the 5x25 board zigzags in blocks of 6 keys:
//
//	  Col  0   1   2   3   4   5   6   7   8   9
//
//	Row 0  A  <a - b - c
//	       |           |
//	    1  B - C - D>  d - e - f>
//
//	    2             <E - F - G  <g - h - i
//	                           |           |
//	    3                      H - I - J>  j - k - l>
var (
	zigzagX = [6]int{0, 1, 2, 2, 3, 4}
	zigzagY = [6]int{0, 0, 0, 1, 1, 1}
)

const (
	zigzagBlockCols = 5
	zigzagBlockRows = 2
)

func zigzagCoord(row, col int) (Coordinate, bool) {
	// two keys were removed to make room for the MCU
	if (row == 1 && col == 0) || (row == 0 && col == 1) {
		return Coordinate{}, false
	}
	if col >= 13 {
		return Coordinate{}, false
	}
	if row%2 == 0 {
		if col == 0 {
			return Coordinate{}, false
		}
		block, idx := (col-1)/6, (col-1)%6
		return Coordinate{
			X: int8(zigzagX[idx] + zigzagBlockCols*block - row/2),
			Y: int8(row + zigzagY[idx] + zigzagBlockRows*block),
		}, true
	}
	block, idx := (col+2)/6, (col+2)%6
	return Coordinate{
		X: int8(-2 + zigzagX[idx] + zigzagBlockCols*block - (row+1)/2),
		Y: int8(row - 1 + zigzagY[idx] + zigzagBlockRows*block),
	}, true
}

func zigzagLED(row, col int) int {
	if (row == 1 && col == 0) || (row == 0 && col == 1) {
		return noLED
	}
	// LEDs snake: even rows left to right from col 1, odd rows right to left.
	var raw int
	if row%2 == 0 {
		if col == 0 {
			return noLED
		}
		raw = 25*(row/2) + col - 1
	} else {
		raw = ((row/2)+1)*25 - 1 - col
	}
	switch {
	case raw >= 25:
		return raw - 2
	case raw >= 1:
		return raw - 1
	}
	return noLED
}

// Zigzag5x25 is the 123-key production board scanned through shift registers
// (10 row inputs x 13 shifted columns).
func Zigzag5x25() Board {
	return newTable("5x25", 10, 13, Coordinate{X: 1, Y: 6}, 123, zigzagCoord, zigzagLED)
}

// Launchpad maps an 8x8 pad grid onto the lattice. Pad row 0 is the bottom
// of the grid, so it becomes y=7 and pitch rises toward the top. LED index is
// row*8 + col.
func Launchpad() Board {
	return newTable("launchpad", 8, 8, Coordinate{X: 3, Y: 3}, 64,
		func(row, col int) (Coordinate, bool) {
			return Coordinate{X: int8(col), Y: int8(7 - row)}, true
		},
		func(row, col int) int { return row*8 + col },
	)
}
