package github

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestIsHumanLogin(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		userType string
		expected bool
	}{
		{
			name:     "valid user",
			login:    "johndoe",
			userType: "User",
			expected: true,
		},
		{
			name:     "graphql node without type",
			login:    "johndoe",
			userType: "",
			expected: true,
		},
		{
			name:     "bot user should be excluded",
			login:    "dependabot[bot]",
			userType: "Bot",
			expected: false,
		},
		{
			name:     "user with bot type should be excluded",
			login:    "someuser",
			userType: "Bot",
			expected: false,
		},
		{
			name:     "empty login should be excluded",
			login:    "",
			userType: "User",
			expected: false,
		},
		{
			name:     "user ending with [bot] should be excluded",
			login:    "github-actions[bot]",
			userType: "User",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isHumanLogin(tt.login, tt.userType)
			if got != tt.expected {
				t.Errorf("isHumanLogin(%q, %q) = %v, want %v",
					tt.login, tt.userType, got, tt.expected)
			}
		})
	}
}

func TestSearchQuery(t *testing.T) {
	got := SearchQuery("neurodesk", "neurodeskedu-reviews")
	want := "repo:neurodesk/neurodeskedu-reviews is:issue in:body review_id:"
	if got != want {
		t.Errorf("SearchQuery() = %q, want %q", got, want)
	}
}

// roundTripFunc serves canned API responses
type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r), nil
}

func jsonResponse(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		Request:    r,
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(Options{Host: "github.com", AuthToken: "test-token", Transport: rt})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

const searchPage1 = `{"data": {"search": {
	"nodes": [
		{"number": 1, "url": "https://github.com/o/r/issues/1", "body": "b1", "updatedAt": "2026-03-01T10:00:00Z",
		 "labels": {"nodes": [{"name": "reviewed"}, {"name": "notebook"}]},
		 "assignees": {"nodes": [{"login": "alice"}, {"login": "renovate[bot]"}]}},
		{}
	],
	"pageInfo": {"hasNextPage": true, "endCursor": "CURSOR1"}
}}}`

const searchPage2 = `{"data": {"search": {
	"nodes": [
		{"number": 2, "url": "https://github.com/o/r/issues/2", "body": "b2", "updatedAt": "2026-03-02T10:00:00Z",
		 "labels": {"nodes": []}, "assignees": {"nodes": []}}
	],
	"pageInfo": {"hasNextPage": false, "endCursor": ""}
}}}`

func TestClient_SearchReviewIssues(t *testing.T) {
	var requests int
	client := newTestClient(t, func(r *http.Request) *http.Response {
		requests++
		var payload struct {
			Variables map[string]interface{} `json:"variables"`
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if q, _ := payload.Variables["query"].(string); q != "repo:o/r is:issue in:body review_id:" {
			t.Errorf("unexpected search query %q", q)
		}
		if payload.Variables["endCursor"] == "CURSOR1" {
			return jsonResponse(r, http.StatusOK, searchPage2)
		}
		return jsonResponse(r, http.StatusOK, searchPage1)
	})

	issues, err := client.SearchReviewIssues(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("SearchReviewIssues() error: %v", err)
	}

	if requests != 2 {
		t.Errorf("expected 2 paged requests, got %d", requests)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}

	first := issues[0]
	if first.URL != "https://github.com/o/r/issues/1" || first.Body != "b1" {
		t.Errorf("unexpected first issue: %+v", first)
	}
	if len(first.Labels) != 2 || first.Labels[0] != "reviewed" {
		t.Errorf("unexpected labels: %v", first.Labels)
	}
	if logins := first.AssigneeLogins(); len(logins) != 1 || logins[0] != "alice" {
		t.Errorf("bot assignee should be filtered, got %v", logins)
	}
	if !first.UpdatedAt.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected updatedAt %v", first.UpdatedAt)
	}
	if issues[1].Number != 2 {
		t.Errorf("expected second page issue, got %+v", issues[1])
	}
}

func TestClient_SearchReviewIssues_Error(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) *http.Response {
		return jsonResponse(r, http.StatusUnauthorized, `{"message": "Bad credentials"}`)
	})

	_, err := client.SearchReviewIssues(context.Background(), "o", "r")
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !strings.Contains(err.Error(), "failed to search review issues") {
		t.Errorf("error %q should contain %q", err.Error(), "failed to search review issues")
	}
}

func TestClient_GetIssue(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) *http.Response {
		if !strings.HasSuffix(r.URL.Path, "/repos/o/r/issues/7") {
			return jsonResponse(r, http.StatusNotFound, `{"message": "Not Found"}`)
		}
		return jsonResponse(r, http.StatusOK, `{
			"number": 7,
			"html_url": "https://github.com/o/r/issues/7",
			"body": "hello",
			"updated_at": "2026-03-01T10:00:00Z",
			"labels": [{"name": "review:queued"}],
			"assignees": [{"login": "bob", "type": "User"}, {"login": "ci", "type": "Bot"}]
		}`)
	})

	issue, err := client.GetIssue(context.Background(), "o", "r", 7)
	if err != nil {
		t.Fatalf("GetIssue() error: %v", err)
	}
	if issue.Number != 7 || issue.URL != "https://github.com/o/r/issues/7" {
		t.Errorf("unexpected issue: %+v", issue)
	}
	if len(issue.Labels) != 1 || issue.Labels[0] != "review:queued" {
		t.Errorf("unexpected labels: %v", issue.Labels)
	}
	if logins := issue.AssigneeLogins(); len(logins) != 1 || logins[0] != "bob" {
		t.Errorf("unexpected assignees: %v", logins)
	}

}

func TestClient_GetIssue_NotFound(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) *http.Response {
		return jsonResponse(r, http.StatusNotFound, `{"message": "Not Found"}`)
	})

	_, err := client.GetIssue(context.Background(), "o", "r", 8)
	if err == nil {
		t.Fatal("expected error for missing issue")
	}
	if !strings.Contains(err.Error(), "failed to fetch issue #8") {
		t.Errorf("error %q should contain %q", err.Error(), "failed to fetch issue #8")
	}
}
