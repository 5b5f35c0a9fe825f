package review

import (
	"errors"
	"sort"
	"time"

	"github.com/ryo246912/gh-review-registry/internal/models"
)

// Source types recorded in registry provenance
const (
	SourceGitHubIssues = "github-issues"
	SourceFixture      = "fixture"
)

// Entry is the registry record kept for one review identifier
type Entry struct {
	State           State
	ReviewIssueURL  string
	DOIURL          string
	ReviewedAt      time.Time
	Reviewers       []string
	ReviewCommitSHA string
	SourcePath      string
	StaleReason     string
}

// Source describes where the registry was built from
type Source struct {
	Type string
	Repo string
	Path string
}

// Registry maps canonical review identifiers to entries
type Registry struct {
	GeneratedAt time.Time
	Source      Source
	Reviews     map[string]Entry
}

// Keys returns the review identifiers in ascending order
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.Reviews))
	for k := range r.Reviews {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the entry for a review identifier
func (r *Registry) Lookup(reviewID string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.Reviews[reviewID]
	return e, ok
}

// Candidate is one issue's contribution to the registry
type Candidate struct {
	Metadata  Metadata
	State     State
	IssueURL  string
	UpdatedAt time.Time
}

// Skip records an issue that contributed nothing to the registry
type Skip struct {
	IssueURL string
	Reason   error
}

// BuildReport summarises how the input issues were used
type BuildReport struct {
	Issues     int
	Entries    int
	Duplicates int
	Skipped    []Skip
}

// SkippedBy counts skipped issues whose reason matches target
func (r BuildReport) SkippedBy(target error) int {
	n := 0
	for _, s := range r.Skipped {
		if errors.Is(s.Reason, target) {
			n++
		}
	}
	return n
}

// ErrMissingIssueURL marks an issue with no URL to link a registry entry to
var ErrMissingIssueURL = errors.New("issue has no URL")

// Evaluate runs extraction and classification over a single issue
func Evaluate(issue models.Issue) (Candidate, error) {
	if issue.URL == "" {
		return Candidate{}, ErrMissingIssueURL
	}
	meta, err := Extract(issue.Body)
	if err != nil {
		return Candidate{}, err
	}
	state, err := Classify(issue.Labels)
	if err != nil {
		return Candidate{}, err
	}
	if len(meta.Reviewers) == 0 {
		meta.Reviewers = issue.AssigneeLogins()
	}
	return Candidate{
		Metadata:  meta,
		State:     state,
		IssueURL:  issue.URL,
		UpdatedAt: issue.UpdatedAt,
	}, nil
}

// Build evaluates every issue and merges the results into a registry.
// Issues that cannot be evaluated are skipped and listed in the report.
func Build(issues []models.Issue, source Source, generatedAt time.Time) (*Registry, BuildReport) {
	report := BuildReport{Issues: len(issues)}

	candidates := make([]Candidate, 0, len(issues))
	for _, issue := range issues {
		c, err := Evaluate(issue)
		if err != nil {
			report.Skipped = append(report.Skipped, Skip{IssueURL: issue.URL, Reason: err})
			continue
		}
		candidates = append(candidates, c)
	}

	reviews, duplicates := Merge(candidates)
	report.Entries = len(reviews)
	report.Duplicates = duplicates

	return &Registry{
		GeneratedAt: generatedAt.UTC().Truncate(time.Second),
		Source:      source,
		Reviews:     reviews,
	}, report
}

// Merge keeps one entry per review identifier. The most recently updated issue
// wins; on equal update times the later candidate wins. It also returns how
// many candidates shared an identifier with an earlier one.
func Merge(candidates []Candidate) (map[string]Entry, int) {
	reviews := make(map[string]Entry, len(candidates))
	updated := make(map[string]time.Time, len(candidates))
	duplicates := 0

	for _, c := range candidates {
		key := c.Metadata.Key()
		if last, seen := updated[key]; seen {
			duplicates++
			if c.UpdatedAt.Before(last) {
				continue
			}
		}
		updated[key] = c.UpdatedAt
		reviews[key] = newEntry(c)
	}
	return reviews, duplicates
}

func newEntry(c Candidate) Entry {
	return Entry{
		State:           c.State,
		ReviewIssueURL:  c.IssueURL,
		DOIURL:          c.Metadata.DOIURL,
		ReviewedAt:      c.Metadata.ReviewedAt,
		Reviewers:       c.Metadata.Reviewers,
		ReviewCommitSHA: c.Metadata.ReviewCommitSHA,
		SourcePath:      c.Metadata.SourcePath,
	}
}
