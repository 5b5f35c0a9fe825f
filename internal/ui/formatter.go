package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ryo246912/gh-review-registry/internal/review"
)

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// Truncate shortens str to at most width columns, marking the cut with "..."
func Truncate(str string, width int) string {
	if runewidth.StringWidth(str) <= width {
		return str
	}
	return runewidth.Truncate(str, width, "...")
}

// FormatEntry renders one registry entry as a fixed-width row
func FormatEntry(id string, e review.Entry) string {
	reviewed := ""
	if !e.ReviewedAt.IsZero() {
		reviewed = e.ReviewedAt.Format(review.DateLayout)
	}
	return strings.Join([]string{
		PadRight(id, 36),
		PadRight(string(e.State), 11),
		PadRight(reviewed, 10),
		PadRight(Truncate(strings.Join(e.Reviewers, ","), 30), 30),
		e.ReviewIssueURL,
	}, " ")
}

// FormatRegistry renders every entry in key order
func FormatRegistry(reg *review.Registry) []string {
	keys := reg.Keys()
	rows := make([]string, len(keys))
	for i, id := range keys {
		rows[i] = FormatEntry(id, reg.Reviews[id])
	}
	return rows
}
