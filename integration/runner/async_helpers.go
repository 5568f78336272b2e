package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/mcdsl/internal/services/events"
)

// EventTimeout is max time to wait for a worker to finish a request
const EventTimeout = 30 * time.Second

// AwaitSettled reads events from sub until the request completes or fails.
// Queued and processing events are skipped.
func AwaitSettled(ctx context.Context, sub *redis.PubSub, timeout time.Duration) (events.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return events.Event{}, fmt.Errorf("timeout waiting for worker (waited %v)", timeout)
			}
			return events.Event{}, fmt.Errorf("failed to receive event: %w", err)
		}

		var ev events.Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			// not ours, keep listening
			continue
		}
		switch ev.Type {
		case events.EventTypeRequestCompleted, events.EventTypeRequestFailed:
			return ev, nil
		}
	}
}
