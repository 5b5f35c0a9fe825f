package review

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoMetadataBlock = errors.New("no nd-review metadata block")
	ErrMissingReviewID = errors.New("metadata block has no review_id")
	ErrInvalidReviewID = errors.New("review_id is not a canonical UUID")
)

// DateLayout is the calendar date format used for reviewed_at
const DateLayout = "2006-01-02"

// metadataBlock matches the HTML comment that carries review metadata:
//
//	<!-- nd-review
//	review_id: 550e8400-e29b-41d4-a716-446655440000
//	reviewers: reviewer-a, reviewer-b
//	-->
var metadataBlock = regexp.MustCompile(`(?is)<!--\s*nd-review(?:\s+(.*?))?\s*-->`)

var commitSHA = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// keyAliases maps alternative key spellings to their canonical key
var keyAliases = map[string]string{
	"doi":        "doi_url",
	"review_sha": "review_commit_sha",
}

// Metadata is the structured content of one issue's metadata block
type Metadata struct {
	ReviewID        uuid.UUID
	DOIURL          string
	ReviewCommitSHA string
	ReviewedAt      time.Time // zero when absent
	Reviewers       []string
	SourcePath      string
}

// Key returns the registry key for this metadata: the lowercase canonical UUID
func (m Metadata) Key() string {
	return m.ReviewID.String()
}

// Extract parses the metadata block of an issue body.
// It returns one of the Err* sentinels when the body yields no record; optional
// fields with malformed values are dropped individually.
func Extract(body string) (Metadata, error) {
	fields, ok := blockFields(body)
	if !ok {
		return Metadata{}, ErrNoMetadataBlock
	}

	rawID, ok := fields["review_id"]
	if !ok || rawID == "" {
		return Metadata{}, ErrMissingReviewID
	}
	id, err := ParseReviewID(rawID)
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		ReviewID:   id,
		SourcePath: fields["source_path"],
		Reviewers:  SplitReviewers(fields["reviewers"]),
	}
	if isHTTPURL(fields["doi_url"]) {
		meta.DOIURL = fields["doi_url"]
	}
	if sha := fields["review_commit_sha"]; commitSHA.MatchString(sha) {
		meta.ReviewCommitSHA = strings.ToLower(sha)
	}
	if d, err := time.Parse(DateLayout, fields["reviewed_at"]); err == nil {
		meta.ReviewedAt = d
	}
	return meta, nil
}

// ParseReviewID accepts only the 8-4-4-4-12 hex form
func ParseReviewID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if len(s) != 36 {
		return uuid.Nil, ErrInvalidReviewID
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidReviewID
	}
	return id, nil
}

// SplitReviewers splits a comma separated handle list, trimming whitespace and
// a leading "@" and dropping empty entries
func SplitReviewers(raw string) []string {
	var reviewers []string
	for _, r := range strings.Split(raw, ",") {
		r = strings.TrimPrefix(strings.TrimSpace(r), "@")
		if r != "" {
			reviewers = append(reviewers, r)
		}
	}
	return reviewers
}

// blockFields returns the key/value lines of the first metadata block.
// A repeated key keeps its last value.
func blockFields(body string) (map[string]string, bool) {
	m := metadataBlock.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}

	fields := make(map[string]string)
	for _, raw := range strings.Split(m[1], "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if canonical, ok := keyAliases[key]; ok {
			if _, set := fields[canonical]; set {
				continue
			}
			key = canonical
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields, true
}

func isHTTPURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
