package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/saralabs/sara-agent/internal/domain"
)

// MockCall records one Complete invocation for assertions.
type MockCall struct {
	Messages []domain.ChatMessage
	Tools    []domain.ToolDefinition
}

// Mock is a scripted LLMClient. Enqueued completions are returned in
// order; once the script is exhausted it echoes the last user message, so
// it also works as a standalone offline backend.
type Mock struct {
	mu       sync.Mutex
	scripted []*domain.Completion
	calls    []MockCall
}

func NewMock() *Mock {
	return &Mock{}
}

// Enqueue appends one scripted completion.
func (m *Mock) Enqueue(c *domain.Completion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripted = append(m.scripted, c)
}

// Calls returns a copy of every recorded invocation.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) Complete(ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolDefinition) (*domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Messages: messages, Tools: tools})

	if len(m.scripted) > 0 {
		next := m.scripted[0]
		m.scripted = m.scripted[1:]
		return next, nil
	}

	var lastUser string
	for _, msg := range messages {
		if msg.Role == domain.ChatRoleUser {
			lastUser = msg.Content
		}
	}
	return &domain.Completion{
		Text: fmt.Sprintf("I hear you. You said: %q. How can I help with your damage report?", lastUser),
	}, nil
}
