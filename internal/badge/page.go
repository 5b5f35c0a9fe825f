package badge

import (
	"html"
	"regexp"
	"strings"
)

// MetaName is the name of the page-level meta tag carrying the review identifier
const MetaName = "nd-review-id"

const (
	badgeOpen  = "<!-- nd-review-badge -->"
	badgeClose = "<!-- /nd-review-badge -->"
)

var (
	metaTag     = regexp.MustCompile(`(?i)<meta\s[^>]*>`)
	metaName    = regexp.MustCompile(`(?i)\bname\s*=\s*["']` + regexp.QuoteMeta(MetaName) + `["']`)
	metaContent = regexp.MustCompile(`(?i)\bcontent\s*=\s*(?:"([^"]*)"|'([^']*)')`)

	previousBadge = regexp.MustCompile(`(?s)\n?` + regexp.QuoteMeta(badgeOpen) + `.*?` + regexp.QuoteMeta(badgeClose) + `\n?`)

	headingClose   = regexp.MustCompile(`(?i)</h1\s*>`)
	contentOpen    = regexp.MustCompile(`(?i)<(?:main|article)(?:\s[^>]*)?>`)
	bodyOpen       = regexp.MustCompile(`(?i)<body(?:\s[^>]*)?>`)
	insertionOrder = []*regexp.Regexp{headingClose, contentOpen, bodyOpen}
)

// ReviewID returns the review identifier from the page's meta marker
func ReviewID(page []byte) (string, bool) {
	for _, tag := range metaTag.FindAll(page, -1) {
		if !metaName.Match(tag) {
			continue
		}
		m := metaContent.FindSubmatch(tag)
		if m == nil {
			continue
		}
		value := string(m[1])
		if value == "" {
			value = string(m[2])
		}
		value = strings.TrimSpace(html.UnescapeString(value))
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// Inject places the rendered badge after the page's first h1, falling back to
// the start of the main/article container and then the body. An existing badge
// is replaced. It reports false if the page has none of those anchors.
func Inject(page []byte, rendered string) ([]byte, bool) {
	page = RemoveBadge(page)

	for _, anchor := range insertionOrder {
		loc := anchor.FindIndex(page)
		if loc == nil {
			continue
		}
		out := make([]byte, 0, len(page)+len(rendered)+1)
		out = append(out, page[:loc[1]]...)
		out = append(out, '\n')
		out = append(out, rendered...)
		out = append(out, page[loc[1]:]...)
		return out, true
	}
	return page, false
}

// RemoveBadge strips a previously injected badge
func RemoveBadge(page []byte) []byte {
	return previousBadge.ReplaceAll(page, nil)
}
