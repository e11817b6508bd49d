package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lattice-board/board"
	"lattice-board/config"
	"lattice-board/console"
	"lattice-board/debug"
	"lattice-board/keys"
	"lattice-board/layout"
	"lattice-board/midi"
	"lattice-board/theme"
	"lattice-board/tui"
)

var (
	configPath string
	boardName  string
	headless   bool
)

var rootCmd = &cobra.Command{
	Use:   "lattice-board",
	Short: "Isomorphic lattice keyboard to MIDI/MPE",
	Long: `lattice-board turns a grid controller into an isomorphic keyboard laid out
on a fifths/fourths lattice and plays it out as MIDI or MPE.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "config file (default ~/.config/lattice-board/config.json)")
	f.StringVar(&boardName, "board", "", "board layout: launchpad, prototype or 5x25")
	f.BoolVar(&headless, "headless", false, "run without the TUI")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}
	if boardName != "" {
		cfg.Board = boardName
	}

	b, err := layout.ByName(cfg.Board)
	if err != nil {
		return err
	}
	policy, err := keys.ParsePolicy(cfg.Scan.Policy)
	if err != nil {
		return err
	}
	palette, err := theme.LoadOrDefault(cfg.Palette)
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}
	th := theme.New(palette)

	port, err := openSynthPort(cfg.SynthOutput)
	if err != nil {
		return err
	}
	defer port.Close()

	manager := board.NewManager(board.Options{
		Board:        b,
		Port:         port,
		QueueSize:    cfg.Transport.QueueSize,
		WriteTimeout: cfg.WriteTimeout(),
		Cable:        cfg.SynthOutput.Cable,
		Policy:       policy,
		ScanInterval: cfg.ScanInterval(),
		Velocity:     cfg.Scan.Velocity,
		Brightness:   cfg.LED.Brightness,
		HueOffset:    cfg.LED.HueOffset,
	})

	// Never treat the synth's own ports as controllers.
	var ignore []string
	for _, name := range []string{cfg.SynthOutput.Output, cfg.SynthOutput.Input} {
		if name != "" {
			ignore = append(ignore, name)
		}
	}
	deviceMgr := midi.NewDeviceManager(midi.DeviceOptions{
		Launchpads: cfg.AutoConnect(config.ControllerLaunchpad),
		Keyboards:  cfg.AutoConnect(config.ControllerKeyboard),
		Ignore:     ignore,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return manager.Run(ctx) })
	g.Go(func() error {
		deviceMgr.Run(ctx)
		return nil
	})

	if cfg.Serial.Device != "" {
		sp, err := console.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			cancel()
			g.Wait()
			return err
		}
		defer sp.Close()
		c := console.New(sp, manager.Targets(), manager.Snapshot)
		g.Go(func() error { return c.Serve(ctx) })
	}

	if headless {
		g.Go(func() error {
			attachControllers(ctx, deviceMgr, manager)
			return nil
		})
		fmt.Printf("lattice-board %s on %s, synth port %s\n", console.Version, b.Name(), port)
		return g.Wait()
	}

	m := tui.NewModel(manager, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	return err
}

// synthPort is what the board writes packets to.
type synthPort interface {
	midi.PacketPort
	Close() error
	String() string
}

// openSynthPort opens the configured synth output, or an in-memory
// loopback when none is configured so the board still runs.
func openSynthPort(sc config.SynthOutputConfig) (synthPort, error) {
	if sc.Output == "" {
		debug.Log("main", "no synth output configured, using loopback")
		return loopback{midi.NewLoopbackPort()}, nil
	}
	dp, err := midi.OpenDriverPortByName(sc.Input, sc.Output, sc.Cable)
	if err != nil {
		return nil, fmt.Errorf("open synth port: %w", err)
	}
	return dp, nil
}

type loopback struct{ *midi.LoopbackPort }

func (loopback) Close() error   { return nil }
func (loopback) String() string { return "loopback" }

// attachControllers follows hot-plug events when there is no TUI to do it.
func attachControllers(ctx context.Context, dm *midi.DeviceManager, m *board.Manager) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-dm.Events():
			if !ok {
				return
			}
			switch ev.Type {
			case midi.DeviceConnected:
				if m.Controller() == nil {
					m.SetController(ev.Controller)
				}
			case midi.DeviceDisconnected:
				if c := m.Controller(); c != nil && c.ID() == ev.ID {
					m.SetController(nil)
				}
			}
		}
	}
}
