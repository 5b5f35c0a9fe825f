package service

import (
	"context"
	"fmt"

	"github.com/ryo246912/gh-review-registry/internal/fixture"
	"github.com/ryo246912/gh-review-registry/internal/github"
	"github.com/ryo246912/gh-review-registry/internal/models"
	"github.com/ryo246912/gh-review-registry/internal/review"
)

// IssueSource supplies the raw issues a registry is built from
type IssueSource interface {
	Issues(ctx context.Context) ([]models.Issue, error)
	Describe() review.Source
}

// GitHubSource searches a reviews repository for review-tracking issues
type GitHubSource struct {
	client github.GitHubClient
	repo   github.RepositoryInfo
}

func NewGitHubSource(client github.GitHubClient, repo github.RepositoryInfo) *GitHubSource {
	return &GitHubSource{client: client, repo: repo}
}

func (s *GitHubSource) Issues(ctx context.Context) ([]models.Issue, error) {
	return s.client.SearchReviewIssues(ctx, s.repo.GetOwner(), s.repo.GetName())
}

func (s *GitHubSource) Describe() review.Source {
	return review.Source{
		Type: review.SourceGitHubIssues,
		Repo: fmt.Sprintf("%s/%s", s.repo.GetOwner(), s.repo.GetName()),
	}
}

// FixtureSource reads issues from a local JSON file
type FixtureSource struct {
	Path string
}

func (s FixtureSource) Issues(ctx context.Context) ([]models.Issue, error) {
	return fixture.Load(s.Path)
}

func (s FixtureSource) Describe() review.Source {
	return review.Source{Type: review.SourceFixture, Path: s.Path}
}
