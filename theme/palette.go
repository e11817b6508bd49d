package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type RGB [3]uint8

func (c RGB) color() colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

func toRGB(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Palette is an ordered colour ramp, dark to light.
type Palette struct {
	Name   string
	Colors []RGB
}

// LoadGPL reads a GIMP palette. Header lines (GIMP Palette, Name:, Columns:)
// and comments are skipped; every other line must start with three 0-255
// channel values, optionally followed by a colour name.
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	sc := bufio.NewScanner(f)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", line[0] == '#', strings.HasPrefix(line, "GIMP"), strings.HasPrefix(line, "Columns:"):
			continue
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}
		c, err := parseGPLColor(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		p.Colors = append(p.Colors, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}
	return p, nil
}

func parseGPLColor(line string) (RGB, error) {
	var c RGB
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return c, fmt.Errorf("want R G B, got %q", line)
	}
	for i := range c {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return c, fmt.Errorf("channel %d: %w", i, err)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// defaultStops run from a near-black blue through teal to a warm white.
var defaultStops = []string{"#10121c", "#1f3347", "#2f6f7a", "#58b8a0", "#f0c060", "#fff4dc"}

const defaultSteps = 32

// Default is the built-in palette, defaultStops blended in Lab space.
func Default() *Palette {
	stops := &Palette{Name: "lattice"}
	for _, h := range defaultStops {
		c, _ := colorful.Hex(h)
		stops.Colors = append(stops.Colors, toRGB(c))
	}
	p := &Palette{Name: stops.Name, Colors: make([]RGB, defaultSteps)}
	for i := range p.Colors {
		p.Colors[i] = stops.Lookup(float64(i) / (defaultSteps - 1))
	}
	return p
}

// LoadOrDefault loads a GPL palette, falling back to Default when path is
// empty.
func LoadOrDefault(path string) (*Palette, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadGPL(path)
}

// Lookup samples the ramp at norm (0-1), blending neighbours in Lab space.
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	switch {
	case norm <= 0 || last == 0:
		return p.Colors[0]
	case norm >= 1:
		return p.Colors[last]
	}
	pos := norm * float64(last)
	i := int(pos)
	return toRGB(p.Colors[i].color().BlendLab(p.Colors[i+1].color(), pos-float64(i)))
}

// Index returns the i-th colour, clamped to the ends of the ramp.
func (p *Palette) Index(i int) RGB {
	return p.Colors[max(0, min(i, len(p.Colors)-1))]
}
