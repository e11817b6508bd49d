package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lattice-board/midi"
)

func init() {
	rootCmd.AddCommand(listCmd, detectCmd, pollCmd)
	detectCmd.Flags().DurationVar(&detectFor, "for", 5*time.Second, "how long to watch for controllers")
	detectCmd.Flags().StringSliceVar(&detectKeyboards, "keyboard", nil, "port name substrings to treat as keyboards")
}

var (
	detectFor       time.Duration
	detectKeyboards []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("=== MIDI Input Ports ===")
		fmt.Println("(waiting up to 3 seconds...)")
		ins, outs, err := midi.ListPorts()
		if err != nil {
			fmt.Println("Fix: sudo killall coreaudiod midiserver")
			return err
		}
		for i, p := range ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Open every controller the device manager finds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		dm := midi.NewDeviceManager(midi.DeviceOptions{Keyboards: detectKeyboards})
		go dm.Run(ctx)

		fmt.Printf("Watching for %s...\n", detectFor)
		timeout := time.After(detectFor)
	watch:
		for {
			select {
			case ev := <-dm.Events():
				switch ev.Type {
				case midi.DeviceConnected:
					fmt.Printf("  + %s (%s)\n", ev.ID, ev.Controller.Type())
				case midi.DeviceDisconnected:
					fmt.Printf("  - %s\n", ev.ID)
				}
			case <-timeout:
				break watch
			}
		}

		open := dm.Controllers()
		if len(open) == 0 {
			fmt.Println("No controllers found")
			return nil
		}
		ids := make([]string, 0, len(open))
		for id := range open {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Println("\nConnected:")
		for _, id := range ids {
			fmt.Printf("  %s (%s)\n", id, open[id].Type())
		}
		return nil
	},
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll for device changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Polling for device changes every 2 seconds...")
		fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var last string
		for {
			ins, outs, err := midi.ListPorts()
			if err != nil {
				fmt.Printf("[%s] %v\n", time.Now().Format("15:04:05"), err)
			} else {
				var inNames, outNames []string
				for _, p := range ins {
					inNames = append(inNames, p.String())
				}
				for _, p := range outs {
					outNames = append(outNames, p.String())
				}
				current := strings.Join(inNames, ",") + "|" + strings.Join(outNames, ",")
				if current != last {
					fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
					fmt.Printf("  Inputs: %v\n", inNames)
					fmt.Printf("  Outputs: %v\n", outNames)
					last = current
				}
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}
