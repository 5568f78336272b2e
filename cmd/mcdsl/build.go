package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/mcdsl/internal/storage"
)

var (
	buildZip   bool
	buildRedis bool
	buildTTL   time.Duration
)

var buildCmd = &cobra.Command{
	Use:   "build <manifest.yaml> [out]",
	Short: "Build a datapack",
	Long: `Build a datapack from a manifest.

The pack is written to the directory [out], or to the zip archive [out]
with --zip. With --redis the build is published to MCDSL_REDIS_URL instead
and its id is printed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !buildRedis && len(args) != 2 {
			return fmt.Errorf("build needs an output path unless --redis is set")
		}
		if buildRedis && buildZip {
			return fmt.Errorf("--zip and --redis cannot be combined")
		}

		out, err := compile(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		dest := ""
		switch {
		case buildRedis:
			sink, err := storage.NewRedisSink(cfg.RedisURL, cfg.RedisKey, log)
			if err != nil {
				return err
			}
			defer sink.Close()
			id, err := sink.WithTTL(buildTTL).Save(ctx, out)
			if err != nil {
				return err
			}
			dest = cfg.RedisKey + ":" + id.String()
		case buildZip:
			if err := storage.NewZipSink(args[1], log).Write(ctx, out); err != nil {
				return err
			}
			dest = args[1]
		default:
			if err := storage.NewDirSink(args[1], log).Write(ctx, out); err != nil {
				return err
			}
			dest = args[1]
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(out, dest, terminalWidth))
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildZip, "zip", false, "Write a zip archive instead of a directory")
	buildCmd.Flags().BoolVar(&buildRedis, "redis", false, "Publish the build to Redis")
	buildCmd.Flags().DurationVar(&buildTTL, "ttl", 0, "Expire a Redis build after this long (0 keeps it)")
	rootCmd.AddCommand(buildCmd)
}
