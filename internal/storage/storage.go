package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

// Sink receives a fully built datapack. Implementations either write every
// file or report an error; a failed write leaves no partial pack behind.
type Sink interface {
	Write(ctx context.Context, out *datapack.Output) error
}

// cleanPath rejects file paths that would escape the pack root.
func cleanPath(p string) (string, error) {
	c := path.Clean(p)
	if c == "." || path.IsAbs(c) || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("invalid output path %q", p)
	}
	return c, nil
}
