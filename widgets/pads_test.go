package widgets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPadGrid(t *testing.T) {
	pads := map[[2]int][3]uint8{
		{0, 0}: {255, 0, 0},
		{1, 2}: {0, 255, 0},
	}
	out := RenderPadGrid(2, 3, pads)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	// top line is row 1
	assert.Equal(t, 1, strings.Count(lines[0], "■"))
	assert.Equal(t, 2, strings.Count(lines[0], "□"))
	assert.Equal(t, 1, strings.Count(lines[1], "■"))
}

func TestPadAt(t *testing.T) {
	row, col, ok := PadAt(8, 8, 0, 7)
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)

	row, col, ok = PadAt(8, 8, 14, 0)
	require.True(t, ok)
	assert.Equal(t, 7, row)
	assert.Equal(t, 7, col)

	_, _, ok = PadAt(8, 8, 1, 0)
	assert.False(t, ok, "gap between pads")
	_, _, ok = PadAt(8, 8, 16, 0)
	assert.False(t, ok)
	_, _, ok = PadAt(8, 8, 0, 8)
	assert.False(t, ok)
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Tuning",
		Keys:  []KeyBinding{{Key: "t", Desc: "toggle mode"}},
	}})
	assert.Equal(t, "Tuning\n  t            toggle mode", out)
}
