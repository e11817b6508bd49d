// Package tuning maps lattice coordinates to pitches and turns key edges
// into MIDI events.
package tuning

import (
	"math"

	"lattice-board/layout"
)

// AnchorCents is the pitch of the board's center key (middle C).
const AnchorCents = 6000.0

// Offsets decomposes coord into octave and fifth steps from center.
//
// x+1, y-1 is a perfect fifth; x+0, y-2 is an octave.
func Offsets(coord, center layout.Coordinate) (octaves, fifths int) {
	dx := int(coord.X) - int(center.X)
	dy := int(coord.Y) - int(center.Y)
	octaves = floorDiv(-dy, 2)
	shift := -dy - octaves*2
	fifths = 2*dx - 2*octaves - shift
	return octaves, fifths
}

// PitchCents is the absolute pitch of coord. The fifths chain is folded back
// an octave every two fifths so keys stay near their natural register.
func PitchCents(coord, center layout.Coordinate, fifthSize float64) float64 {
	octaves, fifths := Offsets(coord, center)
	return AnchorCents +
		float64(octaves)*1200 +
		float64(fifths)*fifthSize -
		float64(floorDiv(fifths, 2))*1200
}

// NearestNote rounds cents to the closest MIDI note, clamped to 0-127.
func NearestNote(cents float64) uint8 {
	n := math.Floor(cents/100 + 0.5)
	switch {
	case n < 0 || math.IsNaN(n):
		return 0
	case n > 127:
		return 127
	}
	return uint8(n)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MaxClosestKeys bounds FindClosestKeys results.
const MaxClosestKeys = 4

// noteBias pulls keys whose plain 12-TET note matches the requested note
// ahead of enharmonic neighbours.
const noteBias = 20.0

// FindClosestKeys returns up to four keys whose pitch lies within a cent of
// the best match for target. Nothing is returned unless the best match is
// closer than maxDist. When biasNote is non-negative, keys whose 12-TET note
// equals it are treated as 20 cents closer.
func FindClosestKeys(b layout.Board, target, maxDist float64, biasNote int, fifthSize float64) []layout.Coordinate {
	center := b.Center()
	coords := layout.Coords(b)

	dist := func(c layout.Coordinate) float64 {
		d := math.Abs(PitchCents(c, center, fifthSize) - target)
		if biasNote >= 0 && int(layout.CoordToMIDI(c, center)) == biasNote {
			d -= noteBias
		}
		return d
	}

	best := maxDist
	for _, c := range coords {
		if d := dist(c); d < best {
			best = d
		}
	}
	if best >= maxDist {
		return nil
	}

	var out []layout.Coordinate
	for _, c := range coords {
		if dist(c) <= best+1 {
			out = append(out, c)
			if len(out) == MaxClosestKeys {
				break
			}
		}
	}
	return out
}
