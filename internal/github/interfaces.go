package github

import (
	"context"

	"github.com/ryo246912/gh-review-registry/internal/models"
)

// GitHubClient defines the interface for GitHub operations
type GitHubClient interface {
	SearchReviewIssues(ctx context.Context, owner, repo string) ([]models.Issue, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (models.Issue, error)
}

// RepositoryInfo defines repository information interface
type RepositoryInfo interface {
	GetOwner() string
	GetName() string
}

// Ensure Client implements GitHubClient interface
var _ GitHubClient = (*Client)(nil)
