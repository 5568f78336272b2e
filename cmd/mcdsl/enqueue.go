package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jwebster45206/mcdsl/internal/manifest"
	"github.com/jwebster45206/mcdsl/internal/services/events"
	"github.com/jwebster45206/mcdsl/internal/services/queue"
	queuePkg "github.com/jwebster45206/mcdsl/pkg/queue"
)

var enqueueValidate bool

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <manifest.yaml>...",
	Short: "Queue manifests for the build worker",
	Long: `Queue manifests on MCDSL_QUEUE_KEY for a running worker. Each manifest is
checked against the schema first; nothing is queued if any of them fails.
Progress for a request is published on the channel build-events:<request_id>.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := queuePkg.RequestTypeBuild
		if enqueueValidate {
			typ = queuePkg.RequestTypeValidate
		}

		reqs := make([]*queuePkg.Request, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read manifest: %w", err)
			}
			if err := manifest.Validate(data); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reqs = append(reqs, &queuePkg.Request{
				RequestID:  uuid.New().String(),
				Type:       typ,
				Manifest:   data,
				Source:     path,
				EnqueuedAt: time.Now().UTC(),
			})
		}

		client, err := queue.NewClient(cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer client.Close()
		q := client.Queue(cfg.QueueKey)
		broadcaster := events.NewBroadcaster(client.Redis(), log)

		ctx := cmd.Context()
		for _, req := range reqs {
			if err := q.EnqueueRequest(ctx, req); err != nil {
				return err
			}
			if err := broadcaster.PublishRequestQueued(ctx, req.RequestID, string(req.Type)); err != nil {
				log.Warn("Failed to publish queued event", "error", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render(req.RequestID), req.Source)
		}

		depth, err := q.Depth(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "queue depth: %d\n", depth)
		return nil
	},
}

func init() {
	enqueueCmd.Flags().BoolVar(&enqueueValidate, "validate", false, "Only compile, do not store the build")
	rootCmd.AddCommand(enqueueCmd)
}
