package backend

import (
	"context"
	"sync"
)

// Mock is a test double for Transport. It records every request and
// returns canned replies in order, falling back to the last one.
type Mock struct {
	ChatFunc func(ctx context.Context, req TurnRequest) (*Reply, error)

	mu       sync.Mutex
	requests []TurnRequest
	replies  []*Reply
	errs     []error
	calls    int
}

// Queue appends a canned outcome. Pass a nil reply with a non-nil error
// to simulate a failed turn.
func (m *Mock) Queue(reply *Reply, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, reply)
	m.errs = append(m.errs, err)
}

func (m *Mock) Chat(ctx context.Context, req TurnRequest) (*Reply, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.replies) == 0 {
		return &Reply{Kind: KindMessage, Message: "mock reply"}, nil
	}
	i := m.calls
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	m.calls++
	return m.replies[i], m.errs[i]
}

// Requests returns a copy of all recorded turn requests.
func (m *Mock) Requests() []TurnRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TurnRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns how many turns were dispatched.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
