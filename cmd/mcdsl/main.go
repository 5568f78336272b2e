package main

import (
	"errors"
	"os"

	"github.com/jwebster45206/mcdsl/internal/manifest"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 when the manifest itself is wrong and 1 for everything else.
func exitCode(err error) int {
	switch {
	case errors.Is(err, manifest.ErrSchema),
		errors.Is(err, manifest.ErrUnknownTrigger),
		errors.Is(err, manifest.ErrUnknownFunction):
		return 2
	default:
		return 1
	}
}
