package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/mcdsl/internal/config"
	"github.com/jwebster45206/mcdsl/internal/logger"
	"github.com/jwebster45206/mcdsl/internal/manifest"
	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

var (
	logLevel string

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mcdsl",
	Short: "Compile build manifests into Minecraft datapacks",
	Long: `mcdsl turns a YAML manifest of functions, triggers and command blocks
into a datapack plus the setblock commands that lay out its redstone.

Environment:
  MCDSL_ENVIRONMENT   development or production (JSON logs)
  MCDSL_LOG_LEVEL     debug, info, warn, error
  MCDSL_REDIS_URL     target for build --redis
  MCDSL_REDIS_KEY     key prefix for build --redis
  MCDSL_QUEUE_KEY     request list used by enqueue and the worker
  MCDSL_PACK_FORMAT   pack_format used when the manifest has none`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.SetLogLevel(logLevel)
		}
		cfg = c
		log = logger.SetupWriter(cfg, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"Log level: debug, info, warn, error (overrides MCDSL_LOG_LEVEL)")
}

// loadPack reads a manifest and declares it on a datapack.
func loadPack(path string) (*datapack.Datapack, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	pack, err := m.Datapack(log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.PackFormat == 0 {
		pack.PackFormat = cfg.PackFormat
	}
	return pack, nil
}

// compile loads and builds a manifest in one step.
func compile(path string) (*datapack.Output, error) {
	pack, err := loadPack(path)
	if err != nil {
		return nil, err
	}
	out, err := pack.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
