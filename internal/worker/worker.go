package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/mcdsl/internal/manifest"
	"github.com/jwebster45206/mcdsl/internal/services/events"
	"github.com/jwebster45206/mcdsl/internal/services/queue"
	"github.com/jwebster45206/mcdsl/pkg/datapack"
	queuePkg "github.com/jwebster45206/mcdsl/pkg/queue"
)

const (
	workerTimeout  = 5 * time.Second
	lockTTL        = 30 * time.Second
	requeueBackoff = 500 * time.Millisecond
)

// BuildSaver stores a built datapack and returns its build id.
type BuildSaver interface {
	Save(ctx context.Context, out *datapack.Output) (uuid.UUID, error)
}

// Worker compiles manifests taken from the build queue
type Worker struct {
	id          string
	queue       *queue.BuildQueue
	saver       BuildSaver
	broadcaster *events.Broadcaster
	redisClient *redis.Client
	packFormat  int
	backoff     time.Duration
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance. packFormat applies to manifests that
// do not set their own.
func New(q *queue.BuildQueue, saver BuildSaver, redisClient *redis.Client, packFormat int, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       q,
		saver:       saver,
		broadcaster: events.NewBroadcaster(redisClient, log),
		redisClient: redisClient,
		packFormat:  packFormat,
		backoff:     requeueBackoff,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ID returns the worker id used for locks and events.
func (w *Worker) ID() string { return w.id }

// Start processes requests until Stop is called
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id, "queue", w.queue.Key())

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest pulls the next request from the queue and processes it
func (w *Worker) processNextRequest() error {
	req, err := w.queue.BlockingDequeueRequest(w.ctx, workerTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		return nil
	}

	w.log.Info("Received request from queue",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"type", req.Type,
		"source", req.Source,
	)

	_, err = w.processRequest(w.ctx, req)
	return err
}

// processRequest compiles one manifest. Builds of the same pack name are
// serialized across workers; a request for a locked pack goes back on the
// queue and the worker waits before taking the next one.
func (w *Worker) processRequest(ctx context.Context, req *queuePkg.Request) (map[string]any, error) {
	start := time.Now()

	if err := w.broadcaster.PublishRequestProcessing(ctx, req.RequestID, string(req.Type), w.id); err != nil {
		w.log.Error("Failed to publish processing event", "error", err)
	}

	m, err := manifest.Parse(req.Manifest)
	if err != nil {
		return nil, w.fail(ctx, req, fmt.Errorf("failed to parse manifest: %w", err))
	}

	switch req.Type {
	case queuePkg.RequestTypeBuild, queuePkg.RequestTypeValidate:
	default:
		return nil, w.fail(ctx, req, fmt.Errorf("unknown request type: %s", req.Type))
	}

	locked, err := w.acquireLock(ctx, m.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire build lock: %w", err)
	}
	if !locked {
		w.log.Info("Pack already building, re-queueing request",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"pack", m.Name,
		)
		if err := w.queue.EnqueueRequest(ctx, req); err != nil {
			return nil, fmt.Errorf("failed to re-queue request: %w", err)
		}
		// Without the pause BLPOP hands the same request straight back.
		select {
		case <-ctx.Done():
		case <-time.After(w.backoff):
		}
		return nil, nil
	}
	defer w.releaseLock(m.Name)

	if m.PackFormat == 0 {
		m.PackFormat = w.packFormat
	}
	pack, err := m.Datapack(w.log.With("request_id", req.RequestID))
	if err != nil {
		return nil, w.fail(ctx, req, err)
	}
	out, err := pack.Build()
	if err != nil {
		return nil, w.fail(ctx, req, err)
	}

	result := map[string]any{
		"pack":  out.Name,
		"files": len(out.Files),
	}
	if req.Type == queuePkg.RequestTypeBuild {
		id, err := w.saver.Save(ctx, out)
		if err != nil {
			return nil, w.fail(ctx, req, err)
		}
		result["build_id"] = id.String()
	}
	result["duration_ms"] = time.Since(start).Milliseconds()

	w.log.Info("Request processed successfully",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"type", req.Type,
		"duration_ms", result["duration_ms"],
	)
	if err := w.broadcaster.PublishRequestCompleted(ctx, req.RequestID, result); err != nil {
		w.log.Error("Failed to publish completion event", "error", err)
	}
	return result, nil
}

func (w *Worker) fail(ctx context.Context, req *queuePkg.Request, err error) error {
	w.log.Error("Request failed",
		"error", err,
		"worker_id", w.id,
		"request_id", req.RequestID,
	)
	if pubErr := w.broadcaster.PublishRequestFailed(ctx, req.RequestID, err.Error()); pubErr != nil {
		w.log.Error("Failed to publish failure event", "error", pubErr)
	}
	return err
}

func lockKey(pack string) string {
	return "build-lock:" + pack
}

// acquireLock returns false when another worker holds the pack's lock
func (w *Worker) acquireLock(ctx context.Context, pack string) (bool, error) {
	return w.redisClient.SetNX(ctx, lockKey(pack), w.id, lockTTL).Result()
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// releaseLock deletes the lock only if this worker still owns it
func (w *Worker) releaseLock(pack string) {
	if err := releaseScript.Run(context.Background(), w.redisClient, []string{lockKey(pack)}, w.id).Err(); err != nil {
		w.log.Error("Failed to release build lock", "error", err, "pack", pack)
	}
}
