package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lattice-board/board"
	"lattice-board/layout"
	"lattice-board/midi"
)

func init() {
	rootCmd.AddCommand(ledsCmd)
	ledsCmd.Flags().Float64Var(&ledsBrightness, "brightness", 0.3, "LED brightness 0-1")
	ledsCmd.Flags().Float64Var(&ledsHue, "hue", 0, "hue offset in degrees")
}

var (
	ledsBrightness float64
	ledsHue        float64
)

var ledsCmd = &cobra.Command{
	Use:   "leds",
	Short: "Show the lattice colours on the first Launchpad found",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		dm := midi.NewDeviceManager(midi.DeviceOptions{})
		go dm.Run(ctx)

		lp, err := firstLaunchpad(dm, 5*time.Second)
		if err != nil {
			return err
		}
		fmt.Printf("Using %s\n", lp.ID())

		m := board.NewManager(board.Options{
			Board:      layout.Launchpad(),
			Brightness: ledsBrightness,
			HueOffset:  ledsHue,
		})
		if err := lp.SetLEDBatch(m.Frame()); err != nil {
			return err
		}

		fmt.Println("Press Enter to clear...")
		fmt.Scanln()

		if err := lp.ClearLEDs(); err != nil {
			return err
		}
		fmt.Println("Done!")
		return nil
	},
}

func firstLaunchpad(dm *midi.DeviceManager, wait time.Duration) (midi.Controller, error) {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if lp := dm.GetLaunchpad(); lp != nil {
			return lp, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil, errors.New("no Launchpad found")
}
