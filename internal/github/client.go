package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	graphql "github.com/cli/shurcooL-graphql"
	"github.com/ryo246912/gh-review-registry/internal/models"
)

// searchPageSize is the largest page GitHub search returns
const searchPageSize = 100

type restDoer interface {
	DoWithContext(ctx context.Context, method, path string, body io.Reader, response interface{}) error
}

type graphQLQuerier interface {
	QueryWithContext(ctx context.Context, name string, q interface{}, variables map[string]interface{}) error
}

// Options configures the GitHub API clients
type Options struct {
	Host      string
	AuthToken string
	Transport http.RoundTripper
}

// Client wraps GitHub API clients
type Client struct {
	rest restDoer
	gql  graphQLQuerier
}

// NewClient builds REST and GraphQL clients. Empty host and token fall back to
// gh's own resolution (GH_HOST, GH_TOKEN/GITHUB_TOKEN, gh auth).
func NewClient(opts Options) (*Client, error) {
	clientOpts := api.ClientOptions{
		Host:      opts.Host,
		AuthToken: opts.AuthToken,
		Transport: opts.Transport,
	}

	restClient, err := api.NewRESTClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	gqlClient, err := api.NewGraphQLClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	return &Client{
		rest: restClient,
		gql:  gqlClient,
	}, nil
}

type issueNode struct {
	Number    int
	URL       string
	Body      string
	UpdatedAt time.Time
	Labels    struct {
		Nodes []struct {
			Name string
		}
	} `graphql:"labels(first: 50)"`
	Assignees struct {
		Nodes []struct {
			Login string
		}
	} `graphql:"assignees(first: 20)"`
}

type issueSearchQuery struct {
	Search struct {
		Nodes []struct {
			Issue issueNode `graphql:"... on Issue"`
		}
		PageInfo struct {
			HasNextPage bool
			EndCursor   string
		}
	} `graphql:"search(type: ISSUE, query: $query, first: $first, after: $endCursor)"`
}

// SearchReviewIssues fetches every issue in owner/repo whose body carries a
// review_id, following search pages sequentially
func (c *Client) SearchReviewIssues(ctx context.Context, owner, repo string) ([]models.Issue, error) {
	// NOTE: equivalent to
	// 	query ($query: String!, $first: Int!, $endCursor: String) {
	// 		search(type: ISSUE, query: $query, first: $first, after: $endCursor) {
	// 			nodes { ... on Issue { number url body updatedAt labels(first: 50) { nodes { name } } assignees(first: 20) { nodes { login } } } }
	// 			pageInfo { hasNextPage endCursor }
	// 		}
	// 	}
	variables := map[string]interface{}{
		"query":     graphql.String(SearchQuery(owner, repo)),
		"first":     graphql.Int(searchPageSize),
		"endCursor": (*graphql.String)(nil),
	}

	var issues []models.Issue
	for {
		var q issueSearchQuery
		if err := c.gql.QueryWithContext(ctx, "ReviewIssues", &q, variables); err != nil {
			return nil, fmt.Errorf("failed to search review issues: %w", err)
		}
		for _, node := range q.Search.Nodes {
			if node.Issue.URL == "" {
				continue
			}
			issues = append(issues, convertIssue(node.Issue))
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["endCursor"] = graphql.String(q.Search.PageInfo.EndCursor)
	}
	return issues, nil
}

// GetIssue fetches a single issue over REST
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (models.Issue, error) {
	path := fmt.Sprintf("repos/%s/%s/issues/%d", owner, repo, number)

	var issue models.Issue
	if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &issue); err != nil {
		return models.Issue{}, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	issue.Assignees = humanUsers(issue.Assignees)
	return issue, nil
}

// SearchQuery is the issue search used to find review-tracking issues
func SearchQuery(owner, repo string) string {
	return fmt.Sprintf("repo:%s/%s is:issue in:body review_id:", owner, repo)
}

func convertIssue(n issueNode) models.Issue {
	issue := models.Issue{
		Number:    n.Number,
		URL:       n.URL,
		Body:      n.Body,
		UpdatedAt: n.UpdatedAt,
		Labels:    make(models.Labels, 0, len(n.Labels.Nodes)),
	}
	for _, l := range n.Labels.Nodes {
		issue.Labels = append(issue.Labels, l.Name)
	}
	for _, a := range n.Assignees.Nodes {
		if isHumanLogin(a.Login, "") {
			issue.Assignees = append(issue.Assignees, models.User{Login: a.Login})
		}
	}
	return issue
}

func humanUsers(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if isHumanLogin(u.Login, u.Type) {
			out = append(out, u)
		}
	}
	return out
}

// isHumanLogin checks if an assignee may stand in as a reviewer
func isHumanLogin(login, userType string) bool {
	return login != "" &&
		!strings.HasSuffix(login, "[bot]") &&
		userType != "Bot"
}
