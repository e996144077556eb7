package mock

import (
	"context"
	"sync"

	"github.com/poiesic/lectern/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Response.
	CompleteFunc func(ctx context.Context, messages []ai.Message, opts ai.CompleteOptions) (string, error)

	// Response is returned when CompleteFunc is nil.
	Response string

	mu        sync.Mutex
	callCount int
	lastCall  []ai.Message
	lastOpts  ai.CompleteOptions
}

// NewMockCompleter creates a mock completer that always replies with response.
func NewMockCompleter(response string) *MockCompleter {
	return &MockCompleter{Response: response}
}

// Complete records the call and returns the injected reply.
func (m *MockCompleter) Complete(ctx context.Context, messages []ai.Message, opts ...ai.CompleteOption) (string, error) {
	o := ai.ApplyCompleteOptions(opts...)

	m.mu.Lock()
	m.callCount++
	m.lastCall = append([]ai.Message(nil), messages...)
	m.lastOpts = o
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, o)
	}
	if m.Response == "" {
		return "", ai.ErrEmptyResponse
	}
	return m.Response, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastMessages returns the messages passed to the most recent call.
func (m *MockCompleter) LastMessages() []ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCall
}

// LastOptions returns the options applied to the most recent call.
func (m *MockCompleter) LastOptions() ai.CompleteOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOpts
}

// Reset clears recorded calls and injected behavior.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastCall = nil
	m.CompleteFunc = nil
}
