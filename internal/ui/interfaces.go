package ui

import "github.com/ryo246912/gh-review-registry/internal/review"

// Prompter defines interface for user interaction
type Prompter interface {
	SelectEntry(reg *review.Registry) (string, error)
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct{}

// SelectEntry prompts user to select a registry entry
func (p *DefaultPrompter) SelectEntry(reg *review.Registry) (string, error) {
	return SelectEntry(reg)
}

// MockPrompter for testing
type MockPrompter struct {
	SelectedReviewID string
	SelectionError   error

	// Call tracking
	SelectEntryCalled bool
}

// SelectEntry mocks entry selection
func (m *MockPrompter) SelectEntry(reg *review.Registry) (string, error) {
	m.SelectEntryCalled = true
	return m.SelectedReviewID, m.SelectionError
}
