package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

// DirSink writes a datapack as a plain directory tree.
type DirSink struct {
	Path   string
	logger *slog.Logger
}

var _ Sink = (*DirSink)(nil)

func NewDirSink(dir string, logger *slog.Logger) *DirSink {
	return &DirSink{Path: dir, logger: logger}
}

// Write renders into a temporary sibling directory and renames it over Path
// once every file is on disk. An existing directory at Path is replaced.
func (d *DirSink) Write(ctx context.Context, out *datapack.Output) error {
	if d.Path == "" {
		return fmt.Errorf("output directory not set")
	}
	target, err := filepath.Abs(d.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return fmt.Errorf("output path %s exists and is not a directory", target)
	}

	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(target)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(tmp)
		}
	}()

	for _, f := range out.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := cleanPath(f.Path)
		if err != nil {
			return err
		}
		dst := filepath.Join(tmp, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(dst, f.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove previous output: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	committed = true

	if d.logger != nil {
		d.logger.Info("Datapack written", "path", target, "files", len(out.Files))
	}
	return nil
}
