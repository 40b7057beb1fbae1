package provider

import (
	"context"
	"sync"
)

// MockLLM is a deterministic LLM implementation for testing.
// It returns a fixed response, a scripted queue of responses, or an error.
type MockLLM struct {
	mu sync.Mutex

	// Response is the fixed text returned by Generate when Responses
	// is empty.
	Response string

	// Responses, if non-empty, are returned one per call in order.
	// The last entry repeats once the queue is exhausted.
	Responses []string

	// Error, if set, is returned by Generate instead of a response.
	Error error

	// Calls counts Generate invocations.
	Calls int

	// LastSystem and LastUser store the most recent prompts.
	LastSystem string
	LastUser   string
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// NewScriptedLLM creates a mock LLM that replays the given responses in
// order.
func NewScriptedLLM(responses ...string) *MockLLM {
	return &MockLLM{Responses: responses}
}

// Generate returns the configured response.
func (m *MockLLM) Generate(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastSystem = system
	m.LastUser = user
	m.Calls++

	if m.Error != nil {
		return "", m.Error
	}

	if len(m.Responses) > 0 {
		idx := m.Calls - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		return m.Responses[idx], nil
	}

	return m.Response, nil
}
