package console

import (
	"fmt"
	"strings"

	"lattice-board/layout"
	"lattice-board/leds"
	"lattice-board/midi"
	"lattice-board/tuning"
)

const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	eol         = "\x1b[K\r\n"
)

// Version is shown in the dashboard header.
const Version = "0.1.0"

// HeldKey is a held key with its lattice offsets from the center.
type HeldKey struct {
	Coord   layout.Coordinate
	Octaves int
	Fifths  int
}

// Status is everything the dashboard shows.
type Status struct {
	Tuning tuning.Params
	LEDs   leds.Settings
	Held   []HeldKey
	Remote []midi.RemoteVoice
	Stats  midi.Stats
}

// HeldKeys annotates coords with their offsets from center.
func HeldKeys(coords []layout.Coordinate, center layout.Coordinate) []HeldKey {
	out := make([]HeldKey, 0, len(coords))
	for _, c := range coords {
		oc, fi := tuning.Offsets(c, center)
		out = append(out, HeldKey{Coord: c, Octaves: oc, Fifths: fi})
	}
	return out
}

// Dashboard renders st for an ANSI terminal. Every line clears to its end so
// the screen can be redrawn in place from the cursor home position.
func Dashboard(st Status) string {
	var b strings.Builder
	rgb := st.LEDs.Anchors[st.LEDs.Selected]

	fmt.Fprintf(&b, "Lattice Board Controller v%s"+eol, Version)
	b.WriteString("-------------------------------" + eol)
	fmt.Fprintf(&b, "Brightness: %.2f | Hue: %.0f | Mode: %s"+eol, st.LEDs.Brightness, st.LEDs.HueOffset, st.Tuning.Mode)
	fmt.Fprintf(&b, "Fifth: %.1fc | PBR: %.1f"+eol, st.Tuning.FifthSize, st.Tuning.PitchBendRange)
	fmt.Fprintf(&b, "RGB: Idx %d | R%d G%d B%d"+eol, st.LEDs.Selected, rgb[0], rgb[1], rgb[2])
	b.WriteString(eol)

	b.WriteString("Held Keys:" + eol)
	if len(st.Held) == 0 {
		b.WriteString(" (None)" + eol)
	} else {
		for _, k := range st.Held {
			fmt.Fprintf(&b, "Oc:%d F:%d | ", k.Octaves, k.Fifths)
		}
		b.WriteString(eol)
	}

	b.WriteString(eol)
	b.WriteString("Remote MIDI:" + eol)
	for _, v := range st.Remote {
		fmt.Fprintf(&b, "Ch%d N%d | ", v.Channel+1, v.Note)
	}
	b.WriteString(eol)
	fmt.Fprintf(&b, "Packets: sent %d dropped %d | in %d rejected %d"+eol,
		st.Stats.Sent, st.Stats.Dropped, st.Stats.Received, st.Stats.Rejected)
	return b.String()
}
