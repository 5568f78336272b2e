package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

// MockSink records written builds in memory for testing
type MockSink struct {
	mu       sync.RWMutex
	outputs  []*datapack.Output
	writeErr error
}

var _ Sink = (*MockSink)(nil)

func NewMockSink() *MockSink {
	return &MockSink{}
}

// SetWriteError configures the mock to fail every write with err
func (m *MockSink) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MockSink) Write(ctx context.Context, out *datapack.Output) error {
	if out == nil {
		return errors.New("output cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.outputs = append(m.outputs, out)
	return nil
}

// Outputs returns every build written so far
func (m *MockSink) Outputs() []*datapack.Output {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*datapack.Output(nil), m.outputs...)
}
