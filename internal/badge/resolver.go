// Package badge turns a page's review identifier and a fetched registry into
// the review status badge shown to readers.
package badge

import (
	"strings"

	"github.com/ryo246912/gh-review-registry/internal/review"
)

// DisplayState is the review status shown to readers
type DisplayState string

const (
	StateUnreviewed DisplayState = "unreviewed"
	StateInProgress DisplayState = "in-progress"
	StateReviewed   DisplayState = "reviewed"
	StateStale      DisplayState = "stale"
)

// Badge is everything needed to render one page's badge
type Badge struct {
	ReviewID  string
	State     DisplayState
	IssueURL  string
	DOIURL    string
	Reviewers []string
}

// Resolve looks up reviewID in the registry. Identifiers missing from the
// registry and queued reviews both resolve to an unreviewed badge with no links.
func Resolve(reviewID string, reg *review.Registry) Badge {
	id := CanonicalID(reviewID)
	b := Badge{ReviewID: id, State: StateUnreviewed}

	entry, ok := reg.Lookup(id)
	if !ok {
		return b
	}

	switch entry.State {
	case review.StateInProgress:
		b.State = StateInProgress
	case review.StateReviewed:
		b.State = StateReviewed
	case review.StateStale:
		b.State = StateStale
	default:
		return b
	}
	b.IssueURL = entry.ReviewIssueURL
	b.DOIURL = entry.DOIURL
	b.Reviewers = entry.Reviewers
	return b
}

// CanonicalID normalizes a page identifier to the registry key form. Values
// that are not UUIDs are returned trimmed and will not match any entry.
func CanonicalID(s string) string {
	s = strings.TrimSpace(s)
	if id, err := review.ParseReviewID(s); err == nil {
		return id.String()
	}
	return s
}
