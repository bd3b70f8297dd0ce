package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted completion client for tests. Replies are returned
// in order; once exhausted the last reply repeats. A non-nil Err is returned
// on every call instead.
type MockClient struct {
	mu       sync.Mutex
	Replies  []string
	Err      error
	requests [][]Message
}

func (m *MockClient) Complete(_ context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]Message, len(messages))
	copy(copied, messages)
	m.requests = append(m.requests, copied)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}
	idx := len(m.requests) - 1
	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	}
	return m.Replies[idx], nil
}

// Calls reports how many completions were requested.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Request returns the message list of the i-th completion call.
func (m *MockClient) Request(i int) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.requests) {
		return nil
	}
	return m.requests[i]
}
