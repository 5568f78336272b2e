package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

// ZipSink writes a datapack as a single zip archive, the form the game
// accepts in a world's datapacks folder.
type ZipSink struct {
	Path   string
	logger *slog.Logger
}

var _ Sink = (*ZipSink)(nil)

// modTime is fixed so identical packs produce identical archives.
var modTime = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func NewZipSink(file string, logger *slog.Logger) *ZipSink {
	return &ZipSink{Path: file, logger: logger}
}

func (z *ZipSink) Write(ctx context.Context, out *datapack.Output) error {
	if z.Path == "" {
		return fmt.Errorf("output archive not set")
	}
	dir := filepath.Dir(z.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(z.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, f := range out.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := cleanPath(f.Path)
		if err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), z.Path); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}
	committed = true

	if z.logger != nil {
		z.logger.Info("Datapack archived", "path", z.Path, "files", len(out.Files))
	}
	return nil
}
