// Package staleness marks reviewed registry entries whose page source changed
// after the reviewed commit.
package staleness

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/ryo246912/gh-review-registry/internal/review"
)

// CommitLookup returns the latest commit that touched a path in a checkout
type CommitLookup interface {
	LatestCommit(ctx context.Context, path string) (string, error)
}

// Git runs git in a checkout directory
type Git struct {
	Dir string
}

func (g Git) LatestCommit(ctx context.Context, file string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "log", "--format=%H", "-1", "--", file)
	cmd.Dir = g.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git log %s: %w: %s", file, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// Result describes one entry the pass looked at
type Result struct {
	ReviewID string
	Err      error
	Stale    bool
}

// Apply compares every reviewed entry that records both a commit and a source
// path against the checkout, marking changed ones stale. sourcePrefix is the
// directory of the book root inside the checkout. Lookup failures leave the
// entry untouched and are returned in the results.
func Apply(ctx context.Context, reg *review.Registry, lookup CommitLookup, sourcePrefix string) []Result {
	var results []Result
	for _, id := range reg.Keys() {
		entry := reg.Reviews[id]
		if entry.State != review.StateReviewed || entry.ReviewCommitSHA == "" || entry.SourcePath == "" {
			continue
		}

		latest, err := lookup.LatestCommit(ctx, path.Join(sourcePrefix, entry.SourcePath))
		if err != nil {
			results = append(results, Result{ReviewID: id, Err: err})
			continue
		}
		if latest == "" || strings.EqualFold(latest, entry.ReviewCommitSHA) {
			results = append(results, Result{ReviewID: id})
			continue
		}

		entry.State = review.StateStale
		entry.StaleReason = fmt.Sprintf("File modified after review (latest: %s, reviewed at: %s)",
			short(latest), short(entry.ReviewCommitSHA))
		reg.Reviews[id] = entry
		results = append(results, Result{ReviewID: id, Stale: true})
	}
	return results
}

// CountStale returns how many results marked an entry stale
func CountStale(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Stale {
			n++
		}
	}
	return n
}

func short(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
