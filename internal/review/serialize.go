package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// FormatVersion is written to every artifact
const FormatVersion = 2

type document struct {
	Version     int                      `json:"version"`
	GeneratedAt string                   `json:"generated_at,omitempty"`
	Source      *sourceDocument          `json:"source,omitempty"`
	Reviews     map[string]entryDocument `json:"reviews"`
}

type sourceDocument struct {
	Type string `json:"type"`
	Repo string `json:"repo,omitempty"`
	Path string `json:"path,omitempty"`
}

type entryDocument struct {
	State           State    `json:"state"`
	ReviewIssueURL  string   `json:"review_issue_url"`
	DOIURL          string   `json:"doi_url,omitempty"`
	ReviewedAt      string   `json:"reviewed_at,omitempty"`
	Reviewers       []string `json:"reviewers,omitempty"`
	ReviewCommitSHA string   `json:"review_commit_sha,omitempty"`
	SourcePath      string   `json:"source_path,omitempty"`
	StaleReason     string   `json:"stale_reason,omitempty"`
}

// Marshal renders the registry as an indented JSON document.
// encoding/json writes map keys in sorted order, so review identifiers come
// out ascending and equal registries produce equal bytes.
func Marshal(r *Registry) ([]byte, error) {
	doc := document{
		Version: FormatVersion,
		Reviews: make(map[string]entryDocument, len(r.Reviews)),
	}
	if !r.GeneratedAt.IsZero() {
		doc.GeneratedAt = r.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if r.Source.Type != "" {
		doc.Source = &sourceDocument{Type: r.Source.Type, Repo: r.Source.Repo, Path: r.Source.Path}
	}
	for id, e := range r.Reviews {
		ed := entryDocument{
			State:           e.State,
			ReviewIssueURL:  e.ReviewIssueURL,
			DOIURL:          e.DOIURL,
			Reviewers:       e.Reviewers,
			ReviewCommitSHA: e.ReviewCommitSHA,
			SourcePath:      e.SourcePath,
			StaleReason:     e.StaleReason,
		}
		if !e.ReviewedAt.IsZero() {
			ed.ReviewedAt = e.ReviewedAt.Format(DateLayout)
		}
		doc.Reviews[id] = ed
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode registry: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a registry artifact
func Decode(rd io.Reader) (*Registry, error) {
	var doc document
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}
	if doc.Reviews == nil {
		return nil, fmt.Errorf("failed to decode registry: missing reviews object")
	}

	r := &Registry{Reviews: make(map[string]Entry, len(doc.Reviews))}
	if doc.GeneratedAt != "" {
		t, err := time.Parse(time.RFC3339, doc.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid generated_at: %w", err)
		}
		r.GeneratedAt = t
	}
	if doc.Source != nil {
		r.Source = Source{Type: doc.Source.Type, Repo: doc.Source.Repo, Path: doc.Source.Path}
	}
	for id, ed := range doc.Reviews {
		if !ed.State.Valid() {
			return nil, fmt.Errorf("failed to decode registry: entry %s has no state", id)
		}
		if ed.ReviewIssueURL == "" {
			return nil, fmt.Errorf("failed to decode registry: entry %s has no review_issue_url", id)
		}
		e := Entry{
			State:           ed.State,
			ReviewIssueURL:  ed.ReviewIssueURL,
			DOIURL:          ed.DOIURL,
			Reviewers:       ed.Reviewers,
			ReviewCommitSHA: ed.ReviewCommitSHA,
			SourcePath:      ed.SourcePath,
			StaleReason:     ed.StaleReason,
		}
		if ed.ReviewedAt != "" {
			if d, err := time.Parse(DateLayout, ed.ReviewedAt); err == nil {
				e.ReviewedAt = d
			}
		}
		r.Reviews[id] = e
	}
	return r, nil
}
