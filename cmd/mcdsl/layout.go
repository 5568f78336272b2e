package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var layoutCopy bool

var layoutCmd = &cobra.Command{
	Use:   "layout <manifest.yaml> <namespace>",
	Short: "Print the setblock commands that build a namespace",
	Long: `Print the resolved layout of one namespace: the clear fills, every
repeater and command block of its triggers, and its always-on blocks.
Paste the lines into a command block chain or run them from the console.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := compile(args[0])
		if err != nil {
			return err
		}
		lines, ok := out.Layout(args[1])
		if !ok {
			return fmt.Errorf("namespace %q has no root or does not exist", args[1])
		}
		text := strings.Join(lines, "\n")

		if layoutCopy {
			if err := clipboard.WriteAll(text); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			log.Info("Layout copied to clipboard", "namespace", args[1], "lines", len(lines))
			return nil
		}
		if text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
		return nil
	},
}

func init() {
	layoutCmd.Flags().BoolVar(&layoutCopy, "copy", false, "Copy the layout to the system clipboard instead of printing it")
	rootCmd.AddCommand(layoutCmd)
}
