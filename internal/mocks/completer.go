package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/focus-api/internal/extraction"
)

// MockCompleter implements extraction.Completer for testing
type MockCompleter struct {
	// CompleteFn allows test cases to mock the Complete behavior
	CompleteFn func(ctx context.Context, prompt string) (string, error)

	// Default response values
	Completion string
	Err        error

	mu      sync.Mutex
	prompts []string
}

var _ extraction.Completer = (*MockCompleter)(nil)

// Complete implements the extraction.Completer interface
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, prompt)
	}
	return m.Completion, m.Err
}

// Prompts returns the prompts received so far.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
