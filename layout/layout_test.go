package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrototypeKeys(t *testing.T) {
	b := Prototype()

	c, ok := b.KeyToCoord(2, 3)
	require.True(t, ok)
	assert.Equal(t, Coordinate{X: 3, Y: 2}, c)
	assert.Equal(t, b.Center(), c)

	_, ok = b.KeyToCoord(0, 0)
	assert.False(t, ok, "no key at r0 c0")
	_, ok = b.KeyToCoord(9, 9)
	assert.False(t, ok, "out of range")

	assert.Len(t, Coords(b), 19)
	assert.Equal(t, 19, b.NumLEDs())
}

func TestZigzagBoardIsConsistent(t *testing.T) {
	b := Zigzag5x25()
	coords := Coords(b)
	require.Len(t, coords, 123)

	seen := make(map[Coordinate]bool)
	for _, c := range coords {
		assert.False(t, seen[c], "duplicate coordinate %v", c)
		seen[c] = true
	}
	assert.True(t, seen[b.Center()], "center must be a real key")

	for i := 0; i < b.NumLEDs(); i++ {
		c, ok := b.LEDToCoord(i)
		require.True(t, ok)
		idx, ok := b.CoordToLED(c)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
	_, ok := b.LEDToCoord(123)
	assert.False(t, ok)
}

func TestZigzagMissingKeys(t *testing.T) {
	b := Zigzag5x25()
	for _, rc := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {2, 13}} {
		_, ok := b.KeyToCoord(rc[0], rc[1])
		assert.False(t, ok, "r%d c%d", rc[0], rc[1])
	}
	c, ok := b.KeyToCoord(1, 1)
	require.True(t, ok)
	assert.Equal(t, Coordinate{X: -1, Y: 1}, c)
}

func TestCoordToMIDI(t *testing.T) {
	center := Coordinate{X: 3, Y: 3}
	assert.Equal(t, uint8(60), CoordToMIDI(center, center))
	assert.Equal(t, uint8(62), CoordToMIDI(Coordinate{X: 4, Y: 3}, center))
	assert.Equal(t, uint8(55), CoordToMIDI(Coordinate{X: 3, Y: 4}, center))
	assert.Equal(t, uint8(0), CoordToMIDI(Coordinate{X: -100, Y: 3}, center))
	assert.Equal(t, uint8(127), CoordToMIDI(Coordinate{X: 100, Y: 3}, center))
}

func TestByName(t *testing.T) {
	for _, name := range []string{"launchpad", "prototype", "5x25"} {
		b, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, b.Name())
	}
	_, err := ByName("nope")
	assert.Error(t, err)
}

func TestLaunchpadRisesUpward(t *testing.T) {
	b := Launchpad()
	low, ok := b.KeyToCoord(0, 3)
	require.True(t, ok)
	high, ok := b.KeyToCoord(1, 3)
	require.True(t, ok)
	assert.Equal(t, CoordToMIDI(low, b.Center())+5, CoordToMIDI(high, b.Center()))

	c, _ := b.KeyToCoord(4, 3)
	assert.Equal(t, b.Center(), c)
	idx, ok := b.CoordToLED(c)
	require.True(t, ok)
	assert.Equal(t, 4*8+3, idx)
}
