package service

import (
	"context"
	"fmt"

	"github.com/ryo246912/gh-review-registry/internal/badge"
	"github.com/ryo246912/gh-review-registry/internal/github"
	"github.com/ryo246912/gh-review-registry/internal/review"
	"github.com/ryo246912/gh-review-registry/internal/ui"
)

// ShowService resolves registry entries for people inspecting an artifact
type ShowService struct {
	fetcher  RegistryFetcher
	prompter ui.Prompter
}

func NewShowService(fetcher RegistryFetcher, prompter ui.Prompter) *ShowService {
	return &ShowService{fetcher: fetcher, prompter: prompter}
}

// Show resolves the badge for the identifier in args, or for an entry picked
// interactively when args is empty
func (s *ShowService) Show(ctx context.Context, registry string, args []string) (badge.Badge, error) {
	reg, err := s.fetcher.Fetch(ctx, registry)
	if err != nil {
		return badge.Badge{}, fmt.Errorf("failed to load registry: %w", err)
	}

	reviewID, err := s.getReviewID(reg, args)
	if err != nil {
		return badge.Badge{}, fmt.Errorf("failed to get review id: %w", err)
	}
	return badge.Resolve(reviewID, reg), nil
}

// getReviewID gets the review id from args or prompts user
func (s *ShowService) getReviewID(reg *review.Registry, args []string) (string, error) {
	if len(args) >= 1 {
		if _, err := review.ParseReviewID(args[0]); err != nil {
			return "", fmt.Errorf("invalid review id %q: %w", args[0], err)
		}
		return args[0], nil
	}
	if len(reg.Reviews) == 0 {
		return "", fmt.Errorf("registry has no entries")
	}
	return s.prompter.SelectEntry(reg)
}

// Inspection is what the builder derives from a single issue
type Inspection struct {
	Issue     int
	URL       string
	Candidate review.Candidate
	Err       error
}

// InspectService explains how one issue would enter the registry
type InspectService struct {
	client github.GitHubClient
	repo   github.RepositoryInfo
}

func NewInspectService(client github.GitHubClient, repo github.RepositoryInfo) *InspectService {
	return &InspectService{client: client, repo: repo}
}

// Inspect fetches an issue and evaluates it. Evaluation failures are returned
// in the Inspection, transport failures as the error.
func (s *InspectService) Inspect(ctx context.Context, number int) (Inspection, error) {
	if number <= 0 {
		return Inspection{}, fmt.Errorf("issue number must be positive")
	}
	issue, err := s.client.GetIssue(ctx, s.repo.GetOwner(), s.repo.GetName(), number)
	if err != nil {
		return Inspection{}, fmt.Errorf("failed to get issue: %w", err)
	}
	c, evalErr := review.Evaluate(issue)
	return Inspection{Issue: number, URL: issue.URL, Candidate: c, Err: evalErr}, nil
}
