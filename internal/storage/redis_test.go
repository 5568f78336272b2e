package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisSink, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	sink, err := NewRedisSink("redis://"+mr.Addr(), "test:builds", testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis sink: %v", err)
	}

	return sink, mr
}

func TestRedisSink_SaveAndLoad(t *testing.T) {
	sink, mr := setupTestRedis(t)
	defer mr.Close()
	defer sink.Close()

	ctx := context.Background()
	id, err := sink.Save(ctx, sampleOutput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	assert.Contains(t, mr.HGet("test:builds:"+id.String(), "pack.mcmeta"), "pack_format")

	out, err := sink.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "demo", out.Name)
	require.Len(t, out.Files, 3)
	// ordered by path
	assert.Equal(t, "data/demo/functions/load_0.mcfunction", out.Files[0].Path)
	assert.Equal(t, "layouts/demo.txt", out.Files[1].Path)
	assert.Equal(t, "pack.mcmeta", out.Files[2].Path)
	assert.Equal(t, "scoreboard objectives add demo dummy", string(out.Files[0].Data))
	assert.Empty(t, out.Files[1].Data)
	require.Len(t, out.Namespaces, 1)
	assert.Equal(t, 1, out.Namespaces[0].Functions)
}

func TestRedisSink_ListAndDelete(t *testing.T) {
	sink, mr := setupTestRedis(t)
	defer mr.Close()
	defer sink.Close()

	ctx := context.Background()
	first, err := sink.Save(ctx, sampleOutput())
	require.NoError(t, err)
	require.NoError(t, sink.Write(ctx, sampleOutput()))

	ids, err := sink.List(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, first, ids[1], "newest first")

	require.NoError(t, sink.Delete(ctx, first))
	ids, err = sink.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.False(t, mr.Exists("test:builds:"+first.String()))

	_, err = sink.Load(ctx, first)
	assert.ErrorIs(t, err, ErrBuildNotFound)
}

func TestRedisSink_TTL(t *testing.T) {
	sink, mr := setupTestRedis(t)
	defer mr.Close()
	defer sink.Close()

	ctx := context.Background()
	id, err := sink.WithTTL(time.Minute).Save(ctx, sampleOutput())
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("test:builds:"+id.String()))
	mr.FastForward(2 * time.Minute)

	_, err = sink.Load(ctx, id)
	assert.ErrorIs(t, err, ErrBuildNotFound)
}

func TestRedisSink_Ping(t *testing.T) {
	sink, mr := setupTestRedis(t)
	defer sink.Close()

	assert.NoError(t, sink.Ping(context.Background()))
	mr.Close()
	assert.Error(t, sink.Ping(context.Background()))
}

func TestNewRedisSink_Errors(t *testing.T) {
	_, err := NewRedisSink("not a url", "", nil)
	assert.Error(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisSink("redis://"+addr, "", nil)
	assert.Error(t, err)
}
