package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/mailsift/internal/model"
)

// MockPrompter is a test implementation of the Prompter interface. It plays
// back scripted decisions in order and accepts once the script runs out.
type MockPrompter struct {
	err         error
	script      []model.Decision
	calls       []MockReviewCall
	finished    []model.ReviewStats
	begunTotal  int
	begunQueued int
	mu          sync.Mutex
	// ErrAfter makes Review fail with err once this many calls succeeded.
	// Negative disables it.
	ErrAfter int
}

// MockReviewCall records details of a single review request.
type MockReviewCall struct {
	Pending  model.Pending
	Decision model.Decision
}

// NewMockPrompter creates a mock prompter with the given script.
func NewMockPrompter(script ...model.Decision) *MockPrompter {
	return &MockPrompter{
		script:   script,
		calls:    make([]MockReviewCall, 0),
		ErrAfter: -1,
	}
}

// FailAfter makes the prompter return err after n successful reviews.
func (m *MockPrompter) FailAfter(n int, err error) *MockPrompter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrAfter = n
	m.err = err
	return m
}

// Begin records the session size.
func (m *MockPrompter) Begin(total, pending int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begunTotal = total
	m.begunQueued = pending
}

// Review returns the next scripted decision.
func (m *MockPrompter) Review(ctx context.Context, pending model.Pending) (model.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Decision{}, err
	}
	if m.ErrAfter >= 0 && len(m.calls) >= m.ErrAfter {
		return model.Decision{}, m.err
	}

	decision := model.Decision{Action: model.ActionAccept}
	if len(m.script) > 0 {
		decision = m.script[0]
		m.script = m.script[1:]
	}

	m.calls = append(m.calls, MockReviewCall{Pending: pending, Decision: decision})
	return decision, nil
}

// Finish records the completion summary.
func (m *MockPrompter) Finish(stats model.ReviewStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, stats)
}

// Calls returns all review requests made.
func (m *MockPrompter) Calls() []MockReviewCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockReviewCall(nil), m.calls...)
}

// Begun returns the totals passed to Begin.
func (m *MockPrompter) Begun() (total, pending int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begunTotal, m.begunQueued
}

// Finished returns the summaries passed to Finish.
func (m *MockPrompter) Finished() []model.ReviewStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ReviewStats(nil), m.finished...)
}
