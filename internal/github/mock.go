package github

import (
	"context"
	"fmt"
	"time"

	"github.com/ryo246912/gh-review-registry/internal/models"
)

// MockClient implements GitHubClient for testing
type MockClient struct {
	// Control test behavior
	Issues      []models.Issue
	SearchError error
	Issue       models.Issue
	IssueError  error

	// Track method calls
	SearchReviewIssuesCalled bool
	GetIssueCalled           bool

	// Store call arguments for verification
	LastOwner  string
	LastRepo   string
	LastNumber int
}

// SearchReviewIssues mocks the GraphQL search
func (m *MockClient) SearchReviewIssues(ctx context.Context, owner, repo string) ([]models.Issue, error) {
	m.SearchReviewIssuesCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	return m.Issues, m.SearchError
}

// GetIssue mocks the REST issue call
func (m *MockClient) GetIssue(ctx context.Context, owner, repo string, number int) (models.Issue, error) {
	m.GetIssueCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastNumber = number
	return m.Issue, m.IssueError
}

// Reset clears all tracking data for fresh test
func (m *MockClient) Reset() {
	m.SearchReviewIssuesCalled = false
	m.GetIssueCalled = false
	m.LastOwner = ""
	m.LastRepo = ""
	m.LastNumber = 0
}

// MockRepository implements repository information for testing
type MockRepository struct {
	Owner string
	Name  string
}

func (m *MockRepository) GetOwner() string {
	return m.Owner
}

func (m *MockRepository) GetName() string {
	return m.Name
}

// CreateTestIssue builds an issue carrying a metadata block for reviewID
func CreateTestIssue(number int, reviewID string, updatedAt time.Time, labels ...string) models.Issue {
	return models.Issue{
		Number:    number,
		URL:       fmt.Sprintf("https://github.com/owner/reviews/issues/%d", number),
		Body:      fmt.Sprintf("<!-- nd-review\nreview_id: %s\n-->\n", reviewID),
		Labels:    labels,
		UpdatedAt: updatedAt,
	}
}

// NewAPIError returns a generic API failure for testing error conditions
func NewAPIError(message string) error {
	return fmt.Errorf("API error: %s", message)
}

// NewNetworkError returns a transport failure for testing error conditions
func NewNetworkError() error {
	return fmt.Errorf("network connection failed")
}
