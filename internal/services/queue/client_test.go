package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	assert.Equal(t, mr.Addr(), client.Addr())
	require.NoError(t, client.Redis().Ping(context.Background()).Err())

	q := client.Queue("")
	assert.Equal(t, "mcdsl:requests", q.Key())
}

func TestNewClient_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	stopped, err := miniredis.Run()
	require.NoError(t, err)
	addr := stopped.Addr()
	stopped.Close()

	tests := []struct {
		name     string
		url      string
		contains string
	}{
		{name: "bad scheme", url: "http://localhost:6379", contains: "parse redis url"},
		{name: "server down", url: "redis://" + addr, contains: "ping redis at " + addr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, logger)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
