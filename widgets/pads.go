package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PadWidth is the number of terminal cells one pad takes in a grid.
const PadWidth = 2

var emptyPad = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")).Render("□")

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderPadGrid renders a rows x cols grid of pads with row 0 at the
// bottom. Positions missing from pads are drawn hollow.
func RenderPadGrid(rows, cols int, pads map[[2]int][3]uint8) string {
	lines := make([]string, 0, rows)
	for row := rows - 1; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col < cols; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			if c, ok := pads[[2]int{row, col}]; ok {
				line.WriteString(RenderPad(c))
			} else {
				line.WriteString(emptyPad)
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// PadAt maps a cell inside a grid drawn by RenderPadGrid back to its pad.
// x and y are relative to the grid's top-left corner.
func PadAt(rows, cols, x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 || y >= rows || x%PadWidth != 0 {
		return 0, 0, false
	}
	col = x / PadWidth
	if col >= cols {
		return 0, 0, false
	}
	return rows - 1 - y, col, true
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
