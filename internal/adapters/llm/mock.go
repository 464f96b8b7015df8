package llm

import (
	"context"
	"sync"

	"github.com/PabloGalante/mindmate/internal/domain"
)

// MockClient is a scripted CompletionClient for local mode and tests.
// Replies are consumed in order; when they run out, a fixed line is
// returned. Setting Err makes every call fail.
type MockClient struct {
	mu      sync.Mutex
	Replies []string
	Err     error

	Calls    int
	Requests []domain.CompletionRequest
}

func NewMockClient(replies ...string) *MockClient {
	return &MockClient{Replies: replies}
}

func (m *MockClient) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.Requests = append(m.Requests, req)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) > 0 {
		reply := m.Replies[0]
		m.Replies = m.Replies[1:]
		return reply, nil
	}
	return "I hear you. Tell me a little more about how that feels.", nil
}
