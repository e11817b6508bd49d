package leds

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"lattice-board/layout"
	"lattice-board/midi"
	"lattice-board/tuning"
)

// litRadius is how far, in cents, a sounding pitch may be from a key and
// still light it.
const litRadius = 200.0

const (
	litWhiten = 0.6
	litBoost  = 3.0
	// LEDs without a key glow a dim grey.
	spareLevel = 50.0
)

// Lit returns every key that should be highlighted: the closest keys to each
// held key's pitch (its enharmonic twins) and to each remote voice's bent
// pitch.
func Lit(b layout.Board, held []layout.Coordinate, remote []midi.RemoteVoice, fifthSize, pbr float64) map[layout.Coordinate]bool {
	lit := make(map[layout.Coordinate]bool)
	center := b.Center()
	for _, c := range held {
		target := tuning.PitchCents(c, center, fifthSize)
		for _, k := range tuning.FindClosestKeys(b, target, litRadius, -1, fifthSize) {
			lit[k] = true
		}
	}
	for _, v := range remote {
		target := RemoteCents(v, pbr)
		for _, k := range tuning.FindClosestKeys(b, target, litRadius, int(v.Note), fifthSize) {
			lit[k] = true
		}
	}
	return lit
}

// RemoteCents is the absolute pitch of a remote voice including its bend.
func RemoteCents(v midi.RemoteVoice, pbr float64) float64 {
	semis := (float64(v.PitchBend) - float64(midi.BendCenter)) / (8192 / pbr)
	return (float64(v.Note)-60)*100 + tuning.AnchorCents + semis*100
}

// KeyColor is the base colour of coord: its pitch class along the circle of
// fifths, rotated by the hue offset and blended between anchors.
func KeyColor(coord, center layout.Coordinate, s Settings) colorful.Color {
	dx := int(coord.X) - int(center.X)
	dy := int(coord.Y) - int(center.Y)
	fifths := dx*2 + dy
	notes := ((fifths*7)%12 + 12) % 12

	pos := math.Mod(float64(notes)+s.HueOffset/30, 12)
	if pos < 0 {
		pos += 12
	}
	idx := int(pos)
	t := pos - float64(idx)
	from := s.Anchors[idx%12].Color()
	to := s.Anchors[(idx+1)%12].Color()
	return from.BlendRgb(to, t)
}

// Shade applies highlighting and global brightness to a base colour.
func Shade(base colorful.Color, lit bool, brightness float64) RGB {
	scale := brightness
	if lit {
		base = base.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, litWhiten)
		scale *= litBoost
	}
	return fromColor(colorful.Color{R: base.R * scale, G: base.G * scale, B: base.B * scale})
}

// Render produces one colour per LED of b.
func Render(b layout.Board, s Settings, lit map[layout.Coordinate]bool) []RGB {
	frame := make([]RGB, b.NumLEDs())
	center := b.Center()
	for i := range frame {
		coord, ok := b.LEDToCoord(i)
		if !ok {
			v := uint8(spareLevel * clamp01(s.Brightness))
			frame[i] = RGB{v, v, v}
			continue
		}
		frame[i] = Shade(KeyColor(coord, center, s), lit[coord], s.Brightness)
	}
	return frame
}
