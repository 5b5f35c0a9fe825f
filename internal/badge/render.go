package badge

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var labels = map[DisplayState]string{
	StateUnreviewed: "Not yet peer reviewed",
	StateInProgress: "Peer review in progress",
	StateReviewed:   "Peer reviewed",
	StateStale:      "Peer review outdated",
}

var badgeTemplate = template.Must(template.New("badge").Parse(
	`<div class="nd-review-badge nd-review-badge--{{.State}}" data-review-state="{{.State}}" data-review-id="{{.ReviewID}}">` +
		`<span class="nd-review-badge__label">{{.Label}}</span>` +
		`{{if .IssueURL}} <a class="nd-review-badge__issue" href="{{.IssueURL}}">review</a>{{end}}` +
		`{{if .DOIURL}} <a class="nd-review-badge__doi" href="{{.DOIURL}}">DOI</a>{{end}}` +
		`{{if .Reviewers}} <span class="nd-review-badge__reviewers">Reviewers: {{.Reviewers}}</span>{{end}}` +
		`</div>`))

// Label returns the reader-facing text for a display state
func (s DisplayState) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return labels[StateUnreviewed]
}

// Render produces the badge markup, wrapped in the markers Inject and
// RemoveBadge look for
func Render(b Badge) (string, error) {
	data := struct {
		ReviewID  string
		State     DisplayState
		Label     string
		IssueURL  string
		DOIURL    string
		Reviewers string
	}{
		ReviewID:  b.ReviewID,
		State:     b.State,
		Label:     b.State.Label(),
		IssueURL:  b.IssueURL,
		DOIURL:    b.DOIURL,
		Reviewers: strings.Join(b.Reviewers, ", "),
	}

	var buf bytes.Buffer
	buf.WriteString(badgeOpen)
	if err := badgeTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render badge: %w", err)
	}
	buf.WriteString(badgeClose)
	buf.WriteByte('\n')
	return buf.String(), nil
}
