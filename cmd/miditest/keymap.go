package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lattice-board/layout"
	"lattice-board/tuning"
)

func init() {
	rootCmd.AddCommand(keymapCmd)
	keymapCmd.Flags().StringVar(&keymapBoard, "board", "launchpad", "board layout (launchpad, prototype, 5x25)")
	keymapCmd.Flags().Float64Var(&keymapFifth, "fifth", tuning.DefaultFifthSize, "fifth size in cents")
	keymapCmd.Flags().BoolVar(&keymapCents, "cents", false, "print pitches in cents instead of coordinates")
}

var (
	keymapBoard string
	keymapFifth float64
	keymapCents bool
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var keymapCmd = &cobra.Command{
	Use:   "keymap",
	Short: "Print a board's key matrix as lattice coordinates",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := layout.ByName(keymapBoard)
		if err != nil {
			return err
		}
		rows, cols := b.Size()
		center := b.Center()
		fmt.Printf("%s: %dx%d, center %v, %d LEDs\n\n", b.Name(), rows, cols, center, b.NumLEDs())

		for r := rows - 1; r >= 0; r-- {
			var line strings.Builder
			for c := 0; c < cols; c++ {
				coord, ok := b.KeyToCoord(r, c)
				switch {
				case !ok:
					line.WriteString(fmt.Sprintf("%9s", "."))
				case keymapCents:
					line.WriteString(fmt.Sprintf("%9.1f", tuning.PitchCents(coord, center, keymapFifth)))
				default:
					note := tuning.NearestNote(tuning.PitchCents(coord, center, keymapFifth))
					line.WriteString(fmt.Sprintf("%9s", fmt.Sprintf("%d,%d:%s", coord.X, coord.Y, noteNames[note%12])))
				}
			}
			fmt.Println(line.String())
		}
		return nil
	},
}
