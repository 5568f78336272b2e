package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

var ErrBuildNotFound = errors.New("build not found")

// RedisSink publishes builds to Redis. Each build gets a uuid; its files are
// stored in the hash <key>:<id>, its metadata in <key>:<id>:meta, and the id
// is pushed onto the list <key> (newest first).
type RedisSink struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

var _ Sink = (*RedisSink)(nil)

type buildMeta struct {
	Name       string                      `json:"name"`
	CreatedAt  time.Time                   `json:"created_at"`
	Namespaces []datapack.NamespaceSummary `json:"namespaces"`
}

// NewRedisSink connects to redisURL and verifies the connection.
func NewRedisSink(redisURL, key string, logger *slog.Logger) (*RedisSink, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if key == "" {
		key = "mcdsl:builds"
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if logger != nil {
		logger.Debug("Connected to Redis for build output", "addr", opt.Addr, "key", key)
	}

	return &RedisSink{
		client: rdb,
		key:    key,
		logger: logger,
	}, nil
}

// WithTTL expires stored builds after d. Zero keeps them forever.
func (r *RedisSink) WithTTL(d time.Duration) *RedisSink {
	r.ttl = d
	return r
}

func (r *RedisSink) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}

func (r *RedisSink) filesKey(id uuid.UUID) string { return r.key + ":" + id.String() }
func (r *RedisSink) metaKey(id uuid.UUID) string  { return r.key + ":" + id.String() + ":meta" }

func (r *RedisSink) Write(ctx context.Context, out *datapack.Output) error {
	_, err := r.Save(ctx, out)
	return err
}

// Save stores out in a single transaction and returns its build id.
func (r *RedisSink) Save(ctx context.Context, out *datapack.Output) (uuid.UUID, error) {
	id := uuid.New()

	files := make(map[string]any, len(out.Files))
	for _, f := range out.Files {
		p, err := cleanPath(f.Path)
		if err != nil {
			return uuid.Nil, err
		}
		files[p] = f.Data
	}
	meta, err := json.Marshal(buildMeta{
		Name:       out.Name,
		CreatedAt:  time.Now().UTC(),
		Namespaces: out.Namespaces,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal build metadata: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(files) > 0 {
			pipe.HSet(ctx, r.filesKey(id), files)
		}
		pipe.Set(ctx, r.metaKey(id), meta, r.ttl)
		if r.ttl > 0 && len(files) > 0 {
			pipe.Expire(ctx, r.filesKey(id), r.ttl)
		}
		pipe.LPush(ctx, r.key, id.String())
		return nil
	})
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Failed to save build", "uuid", id, "error", err)
		}
		return uuid.Nil, fmt.Errorf("failed to save build: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("Datapack published", "uuid", id, "key", r.key, "files", len(files))
	}
	return id, nil
}

// Load reads a stored build back. Files are ordered by path.
func (r *RedisSink) Load(ctx context.Context, id uuid.UUID) (*datapack.Output, error) {
	raw, err := r.client.Get(ctx, r.metaKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
		}
		return nil, fmt.Errorf("failed to load build metadata: %w", err)
	}
	var meta buildMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal build metadata: %w", err)
	}

	fields, err := r.client.HGetAll(ctx, r.filesKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load build files: %w", err)
	}
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := &datapack.Output{Name: meta.Name, Namespaces: meta.Namespaces}
	for _, p := range paths {
		out.Files = append(out.Files, datapack.File{Path: p, Data: []byte(fields[p])})
	}
	return out, nil
}

// List returns stored build ids, newest first.
func (r *RedisSink) List(ctx context.Context) ([]uuid.UUID, error) {
	vals, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(vals))
	for _, v := range vals {
		id, err := uuid.Parse(v)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("Skipping malformed build id", "value", v)
			}
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *RedisSink) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.filesKey(id), r.metaKey(id))
		pipe.LRem(ctx, r.key, 0, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete build: %w", err)
	}
	return nil
}
