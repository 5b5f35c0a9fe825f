package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ryo246912/gh-review-registry/internal/review"
	"github.com/ryo246912/gh-review-registry/internal/staleness"
)

var (
	ErrSourceUnavailable = errors.New("issue source unavailable")
	ErrSinkUnwritable    = errors.New("registry output not writable")
)

// BuildOptions controls one registry build
type BuildOptions struct {
	Out          string
	SourcePrefix string
	GeneratedAt  time.Time
}

// BuildResult summarises a finished build
type BuildResult struct {
	Out        string
	Report     review.BuildReport
	StaleCount int
}

// BuildService builds the registry artifact from an issue source
type BuildService struct {
	source IssueSource
	lookup staleness.CommitLookup
	log    *zap.SugaredLogger
}

// NewBuildService creates a new service instance. lookup may be nil to skip
// the staleness pass.
func NewBuildService(source IssueSource, lookup staleness.CommitLookup, log *zap.SugaredLogger) *BuildService {
	return &BuildService{
		source: source,
		lookup: lookup,
		log:    log,
	}
}

// Run fetches issues, builds the registry and writes the artifact. Issues
// that yield no entry are reported, never fatal; an unreadable source or an
// unwritable output aborts the run before anything is written.
func (s *BuildService) Run(ctx context.Context, opts BuildOptions) (BuildResult, error) {
	src := s.source.Describe()
	s.log.Debugw("fetching issues", "source", src.Type, "repo", src.Repo, "path", src.Path)

	issues, err := s.source.Issues(ctx)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	reg, report := review.Build(issues, src, opts.GeneratedAt)
	for _, skip := range report.Skipped {
		s.log.Debugw("skipped issue", "issue", skip.IssueURL, "reason", skip.Reason)
	}
	if report.Duplicates > 0 {
		s.log.Infow("resolved duplicate review ids by most recent update", "duplicates", report.Duplicates)
	}

	result := BuildResult{Out: opts.Out, Report: report}
	if s.lookup != nil {
		results := staleness.Apply(ctx, reg, s.lookup, opts.SourcePrefix)
		for _, r := range results {
			if r.Err != nil {
				s.log.Warnw("staleness check failed", "review_id", r.ReviewID, "error", r.Err)
			}
		}
		result.StaleCount = staleness.CountStale(results)
	}

	data, err := review.Marshal(reg)
	if err != nil {
		return BuildResult{}, err
	}
	if err := WriteArtifact(opts.Out, data); err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	s.log.Infow("wrote registry",
		"out", opts.Out,
		"issues", report.Issues,
		"reviews", report.Entries,
		"skipped", len(report.Skipped),
		"stale", result.StaleCount,
	)
	return result, nil
}

// WriteArtifact writes data to a temporary file next to path and renames it
// into place, so readers never see a partial artifact
func WriteArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// BuildTime returns the generation timestamp: SOURCE_DATE_EPOCH when set,
// otherwise now
func BuildTime(now func() time.Time) (time.Time, error) {
	epoch := os.Getenv("SOURCE_DATE_EPOCH")
	if epoch == "" {
		return now().UTC(), nil
	}
	secs, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid SOURCE_DATE_EPOCH %q: %w", epoch, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}
