package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/Veraticus/mailsift/internal/model"
)

// MockSource is a test implementation of llm.Source. It answers with the
// first response whose key appears in the request content, else Default.
type MockSource struct {
	Err       error
	Responses map[string]string
	Default   string
	calls     []model.SuggestionRequest
	mu        sync.Mutex
}

// NewMockSource creates a mock source answering def.
func NewMockSource(def string) *MockSource {
	return &MockSource{
		Default:   def,
		Responses: make(map[string]string),
		calls:     make([]model.SuggestionRequest, 0),
	}
}

// Name implements llm.Source.
func (m *MockSource) Name() string {
	return "mock"
}

// Propose implements llm.Source.
func (m *MockSource) Propose(_ context.Context, req model.SuggestionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if m.Err != nil {
		return "", m.Err
	}
	content := strings.ToLower(req.Content)
	for key, resp := range m.Responses {
		if strings.Contains(content, strings.ToLower(key)) {
			return resp, nil
		}
	}
	return m.Default, nil
}

// Calls returns every request made.
func (m *MockSource) Calls() []model.SuggestionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.SuggestionRequest(nil), m.calls...)
}
