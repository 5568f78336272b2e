package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/mcdsl/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest.yaml>...",
	Short: "Check manifests without writing anything",
	Long: `Validate each manifest against the schema, then build it in memory so
unknown triggers, duplicate names and missing roots are reported too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var firstErr error
		for _, path := range args {
			out, err := compile(path)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", errorStyle.Render("✗"), err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d files)\n", okStyle.Render("✓"), path, len(out.Files))
		}
		return firstErr
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the manifest JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(manifest.Schema())
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
}
