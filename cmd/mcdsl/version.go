package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mcdsl version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "mcdsl %s (default pack_format %d)\n", version, cfg.PackFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
