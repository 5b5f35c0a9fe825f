package review

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryo246912/gh-review-registry/internal/models"
)

func issueWithBlock(url, block string, updated time.Time, labels ...string) models.Issue {
	return models.Issue{
		URL:       url,
		Body:      "<!-- nd-review\n" + block + "\n-->",
		Labels:    labels,
		UpdatedAt: updated,
	}
}

var (
	day1 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

func TestBuild_ReviewedScenario(t *testing.T) {
	issues := []models.Issue{
		issueWithBlock("https://github.com/o/r/issues/1",
			"review_id: "+testReviewID+"\nreviewers: reviewer-a, reviewer-b", day1, "reviewed"),
	}

	reg, report := Build(issues, Source{Type: SourceFixture}, day2)

	require.Len(t, reg.Reviews, 1)
	entry, ok := reg.Lookup(testReviewID)
	require.True(t, ok)
	assert.Equal(t, StateReviewed, entry.State)
	assert.Equal(t, []string{"reviewer-a", "reviewer-b"}, entry.Reviewers)
	assert.Equal(t, "https://github.com/o/r/issues/1", entry.ReviewIssueURL)
	assert.Equal(t, 1, report.Entries)
	assert.Empty(t, report.Skipped)
}

func TestBuild_SkipsUnusableIssues(t *testing.T) {
	issues := []models.Issue{
		{URL: "u1", Body: "no block here", Labels: []string{"reviewed"}},
		issueWithBlock("u2", "review_id: nope", day1, "reviewed"),
		issueWithBlock("u3", "review_id: "+testReviewID, day1, "bug"),
		issueWithBlock("u4", "review_id: "+testReviewID, day1, "review:queued"),
	}

	reg, report := Build(issues, Source{Type: SourceFixture}, day2)

	assert.Len(t, reg.Reviews, 1)
	assert.Equal(t, 4, report.Issues)
	assert.Len(t, report.Skipped, 3)
	assert.Equal(t, 1, report.SkippedBy(ErrNoMetadataBlock))
	assert.Equal(t, 1, report.SkippedBy(ErrInvalidReviewID))
	assert.Equal(t, 1, report.SkippedBy(ErrUnclassifiable))
}

func TestBuild_SkipsIssueWithoutURL(t *testing.T) {
	issues := []models.Issue{
		issueWithBlock("", "review_id: "+testReviewID, day1, "reviewed"),
	}

	reg, report := Build(issues, Source{Type: SourceFixture}, day2)

	assert.Empty(t, reg.Reviews)
	assert.Equal(t, 1, report.SkippedBy(ErrMissingIssueURL))
}

func TestBuild_AssigneeFallback(t *testing.T) {
	issue := issueWithBlock("u1", "review_id: "+testReviewID, day1, "review:in-progress")
	issue.Assignees = []models.User{{Login: "alice"}, {Login: ""}, {Login: "bob"}}

	reg, _ := Build([]models.Issue{issue}, Source{}, day2)
	assert.Equal(t, []string{"alice", "bob"}, reg.Reviews[testReviewID].Reviewers)

	issue.Body = "<!-- nd-review\nreview_id: " + testReviewID + "\nreviewers: carol\n-->"
	reg, _ = Build([]models.Issue{issue}, Source{}, day2)
	assert.Equal(t, []string{"carol"}, reg.Reviews[testReviewID].Reviewers)
}

func TestMerge_MostRecentlyUpdatedWins(t *testing.T) {
	older := issueWithBlock("old", "review_id: "+testReviewID, day1, "reviewed")
	newer := issueWithBlock("new", "review_id: "+testReviewID, day2, "review:in-progress")

	for name, order := range map[string][]models.Issue{
		"newer last":  {older, newer},
		"newer first": {newer, older},
	} {
		t.Run(name, func(t *testing.T) {
			reg, report := Build(order, Source{}, day2)
			entry := reg.Reviews[testReviewID]
			assert.Equal(t, StateInProgress, entry.State)
			assert.Equal(t, "new", entry.ReviewIssueURL)
			assert.Equal(t, 1, report.Duplicates)
		})
	}
}

func TestMerge_TiedUpdateLaterInputWins(t *testing.T) {
	first := issueWithBlock("first", "review_id: "+testReviewID, day1, "review:stale")
	second := issueWithBlock("second", "review_id: "+testReviewID, day1, "review:queued")

	reg, _ := Build([]models.Issue{first, second}, Source{}, day2)
	assert.Equal(t, "second", reg.Reviews[testReviewID].ReviewIssueURL)
	assert.Equal(t, StateQueued, reg.Reviews[testReviewID].State)
}

func TestMarshal_Deterministic(t *testing.T) {
	issues := []models.Issue{
		issueWithBlock("https://x/3", "review_id: f47ac10b-58cc-4372-a567-0e02b2c3d479", day1, "review:queued"),
		issueWithBlock("https://x/1?a=1&b=2", "review_id: "+testReviewID+"\ndoi_url: https://doi.org/10.1/x\nreviewed_at: 2026-02-12\nreviewers: a, b", day1, "reviewed"),
		issueWithBlock("https://x/2", "review_id: 0a1b2c3d-0000-4000-8000-000000000000", day1, "review:stale"),
	}
	reg, _ := Build(issues, Source{Type: SourceGitHubIssues, Repo: "o/r"}, day2)

	first, err := Marshal(reg)
	require.NoError(t, err)
	second, err := Marshal(reg)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// keys ascending
	a := bytes.Index(first, []byte(`"0a1b2c3d-0000-4000-8000-000000000000"`))
	b := bytes.Index(first, []byte(`"`+testReviewID+`"`))
	c := bytes.Index(first, []byte(`"f47ac10b-58cc-4372-a567-0e02b2c3d479"`))
	assert.True(t, a > 0 && a < b && b < c, "keys out of order:\n%s", first)

	assert.Contains(t, string(first), `"review_issue_url": "https://x/1?a=1&b=2"`)
	assert.Contains(t, string(first), `"generated_at": "2026-03-02T09:00:00Z"`)
	assert.Contains(t, string(first), `"reviewed_at": "2026-02-12"`)
}

func TestMarshal_OmitsAbsentFields(t *testing.T) {
	reg := &Registry{Reviews: map[string]Entry{
		testReviewID: {State: StateQueued, ReviewIssueURL: "https://x/1"},
	}}

	out, err := Marshal(reg)
	require.NoError(t, err)

	want := `{
  "version": 2,
  "reviews": {
    "550e8400-e29b-41d4-a716-446655440000": {
      "state": "queued",
      "review_issue_url": "https://x/1"
    }
  }
}
`
	assert.Equal(t, want, string(out))
}

func TestDecode_RoundTrip(t *testing.T) {
	reg := &Registry{
		GeneratedAt: day2,
		Source:      Source{Type: SourceGitHubIssues, Repo: "o/r"},
		Reviews: map[string]Entry{
			testReviewID: {
				State:          StateReviewed,
				ReviewIssueURL: "https://x/1",
				DOIURL:         "https://doi.org/10.1/x",
				ReviewedAt:     time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
				Reviewers:      []string{"a", "b"},
			},
		},
	}

	out, err := Marshal(reg)
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, reg, got)
}

func TestDecode_Malformed(t *testing.T) {
	for _, body := range []string{
		``,
		`[]`,
		`{"version": 2}`,
		`{"reviews": {"x": {"state": "done"}}}`,
		`{"reviews": {"x": {"review_issue_url": "u"}}}`,
		`{"reviews": {"x": {"state": "reviewed"}}}`,
		`{"reviews": {"x": {"state": "reviewed", "review_issue_url": ""}}}`,
	} {
		_, err := Decode(bytes.NewReader([]byte(body)))
		assert.Error(t, err, "body %q", body)
	}
}
