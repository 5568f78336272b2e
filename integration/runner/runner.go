package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/mcdsl/internal/services/events"
	"github.com/jwebster45206/mcdsl/internal/services/queue"
	"github.com/jwebster45206/mcdsl/internal/storage"
	"github.com/jwebster45206/mcdsl/pkg/datapack"
	queuePkg "github.com/jwebster45206/mcdsl/pkg/queue"
)

// Runner executes integration cases against a running build worker
type Runner struct {
	RedisURL string
	QueueKey string
	BuildKey string
	Timeout  time.Duration
	Logger   func(format string, args ...any)
}

// NewRunner creates a new test runner
func NewRunner(redisURL string) *Runner {
	return &Runner{
		RedisURL: redisURL,
		QueueKey: "mcdsl:requests",
		BuildKey: "mcdsl:builds",
		Timeout:  EventTimeout,
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger(format, args...)
	}
}

// LoadTestCase loads a case from a JSON file
func LoadTestCase(filename string) (TestCase, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestCase{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var tc TestCase
	if err := json.Unmarshal(content, &tc); err != nil {
		return TestCase{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	if tc.Manifest == "" {
		return TestCase{}, fmt.Errorf("%s: manifest is required", filename)
	}
	return tc, nil
}

// RunCase queues the case's manifest, waits for the worker and checks the
// result.
func (r *Runner) RunCase(ctx context.Context, tc TestCase, casesDir string) TestResult {
	start := time.Now()
	result := TestResult{Name: tc.Name, RequestID: uuid.New().String()}
	defer func() { result.Duration = time.Since(start) }()

	data, err := os.ReadFile(filepath.Join(casesDir, tc.Manifest))
	if err != nil {
		result.Error = fmt.Errorf("failed to read manifest: %w", err)
		return result
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := queue.NewClient(r.RedisURL, quiet)
	if err != nil {
		result.Error = err
		return result
	}
	defer client.Close()

	// Subscribe before queueing so no event is missed.
	sub := client.Redis().Subscribe(ctx, events.Channel(result.RequestID))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		result.Error = fmt.Errorf("failed to subscribe: %w", err)
		return result
	}

	typ := queuePkg.RequestTypeBuild
	if tc.Validate {
		typ = queuePkg.RequestTypeValidate
	}
	req := &queuePkg.Request{
		RequestID:  result.RequestID,
		Type:       typ,
		Manifest:   data,
		Source:     tc.Manifest,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := queue.NewBuildQueue(client, r.QueueKey).EnqueueRequest(ctx, req); err != nil {
		result.Error = err
		return result
	}
	r.logf("  queued %s (%s)", tc.Name, result.RequestID)

	ev, err := AwaitSettled(ctx, sub, r.Timeout)
	if err != nil {
		result.Error = err
		return result
	}

	status, _ := ev.Data["status"].(string)
	if status != tc.Expect.Status {
		result.Failures = append(result.Failures, fmt.Sprintf("status: expected %q, got %q (%v)", tc.Expect.Status, status, ev.Data["error"]))
		return result
	}
	if status == "failed" {
		msg, _ := ev.Data["error"].(string)
		if tc.Expect.ErrorContains != "" && !strings.Contains(msg, tc.Expect.ErrorContains) {
			result.Failures = append(result.Failures, fmt.Sprintf("error: expected %q in %q", tc.Expect.ErrorContains, msg))
		}
		result.Success = len(result.Failures) == 0
		return result
	}

	res, _ := ev.Data["result"].(map[string]any)
	buildID, _ := res["build_id"].(string)
	result.BuildID = buildID
	if buildID == "" {
		// validate requests store nothing to inspect
		result.Success = true
		return result
	}

	out, err := r.loadBuild(ctx, buildID)
	if err != nil {
		result.Error = err
		return result
	}
	result.Failures = checkOutput(out, tc.Expect)
	result.Success = len(result.Failures) == 0
	return result
}

func (r *Runner) loadBuild(ctx context.Context, buildID string) (*datapack.Output, error) {
	id, err := uuid.Parse(buildID)
	if err != nil {
		return nil, fmt.Errorf("bad build id %q: %w", buildID, err)
	}
	sink, err := storage.NewRedisSink(r.RedisURL, r.BuildKey, nil)
	if err != nil {
		return nil, err
	}
	defer sink.Close()
	return sink.Load(ctx, id)
}

// checkOutput returns one message per unmet expectation.
func checkOutput(out *datapack.Output, expect Expectations) []string {
	var failures []string
	for path, wants := range expect.Files {
		data, ok := out.File(path)
		if !ok {
			failures = append(failures, "missing file "+path)
			continue
		}
		for _, want := range wants {
			if !strings.Contains(string(data), want) {
				failures = append(failures, fmt.Sprintf("%s: expected to contain %q", path, want))
			}
		}
	}
	for _, path := range expect.Missing {
		if _, ok := out.File(path); ok {
			failures = append(failures, "unexpected file "+path)
		}
	}
	for ns, n := range expect.LayoutLines {
		lines, ok := out.Layout(ns)
		if !ok {
			failures = append(failures, "no layout for "+ns)
			continue
		}
		if len(lines) != n {
			failures = append(failures, fmt.Sprintf("layout %s: expected %d lines, got %d", ns, n, len(lines)))
		}
	}
	return failures
}
