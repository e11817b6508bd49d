// Command miditest pokes at MIDI ports and the board pipeline without the
// full TUI.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"lattice-board/debug"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "miditest",
	Short: "MIDI test scripts for lattice-board",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			return debug.Enable()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write the debug log")
}

func main() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
