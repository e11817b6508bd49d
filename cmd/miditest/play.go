package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lattice-board/layout"
	"lattice-board/midi"
	"lattice-board/tuning"
)

func init() {
	rootCmd.AddCommand(playCmd)
	f := playCmd.Flags()
	f.StringVar(&playOut, "out", "", "output port substring (empty prints packets instead)")
	f.StringVar(&playBoard, "board", "launchpad", "board layout")
	f.BoolVar(&playStandard, "standard", false, "use Standard mode instead of Fifths")
	f.Float64Var(&playFifth, "fifth", tuning.DefaultFifthSize, "fifth size in cents")
	f.IntVar(&playRow, "row", 3, "matrix row to play left to right")
	f.DurationVar(&playHold, "hold", 250*time.Millisecond, "note length")
}

var (
	playOut      string
	playBoard    string
	playStandard bool
	playFifth    float64
	playRow      int
	playHold     time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one row of the board through the translation engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := layout.ByName(playBoard)
		if err != nil {
			return err
		}
		if rows, _ := b.Size(); playRow < 0 || playRow >= rows {
			return fmt.Errorf("row %d out of range for %s", playRow, b.Name())
		}

		var port midi.PacketPort
		loop := midi.NewLoopbackPort()
		if playOut == "" {
			port = loop
		} else {
			dp, err := midi.OpenDriverPortByName("", playOut, 0)
			if err != nil {
				return err
			}
			defer dp.Close()
			fmt.Printf("Using output: %s\n", dp)
			port = dp
		}

		tunables := tuning.NewTunables()
		tunables.SetFifthSize(playFifth)
		if playStandard {
			tunables.SetMode(tuning.Standard)
		}
		engine := tuning.NewEngine(b, tunables)
		queue := midi.NewQueue(0)
		tr := midi.NewTransport(port, queue, midi.NewRemoteVoices())

		ctx, cancel := context.WithCancel(cmd.Context())
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return tr.RunOutbound(gctx) })

		_, cols := b.Size()
		for c := 0; c < cols; c++ {
			coord, ok := b.KeyToCoord(playRow, c)
			if !ok {
				continue
			}
			for _, pressed := range []bool{true, false} {
				ev, ok := engine.Translate(coord, 100, pressed)
				if !ok {
					fmt.Printf("  %v dropped\n", coord)
					continue
				}
				fmt.Printf("  %v %v\n", coord, ev)
				if err := queue.Send(ctx, ev); err != nil {
					cancel()
					return err
				}
				time.Sleep(playHold)
			}
		}

		for queue.Len() > 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
		if err := g.Wait(); err != nil && err != context.Canceled {
			return err
		}

		if playOut == "" {
			for _, pkt := range loop.Sent() {
				fmt.Println(pkt)
			}
		}
		st := tr.Stats()
		fmt.Printf("sent %d, dropped %d\n", st.Sent, st.Dropped)
		return nil
	},
}
