package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"lattice-board/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configWrite, "write", false, "save the effective config back to disk")
}

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s\n", path, data)

		if configWrite {
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Println("Saved.")
		}
		return nil
	},
}
