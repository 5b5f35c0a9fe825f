package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ryo246912/gh-review-registry/internal/badge"
	"github.com/ryo246912/gh-review-registry/internal/review"
)

// RegistryFetcher loads a registry artifact
type RegistryFetcher interface {
	Fetch(ctx context.Context, location string) (*review.Registry, error)
}

// BadgeResult summarises a badge run
type BadgeResult struct {
	Pages      int
	Marked     int
	Badged     int
	NoAnchor   int
	Suppressed bool
}

// BadgeService stamps review badges into built HTML pages
type BadgeService struct {
	fetcher RegistryFetcher
	log     *zap.SugaredLogger
}

func NewBadgeService(fetcher RegistryFetcher, log *zap.SugaredLogger) *BadgeService {
	return &BadgeService{fetcher: fetcher, log: log}
}

type markedPage struct {
	path     string
	content  []byte
	reviewID string
	mode     fs.FileMode
}

// Apply badges every page carrying a review marker. The registry is fetched
// once, and only if some page has a marker. A failed fetch is not an error:
// pages are left untouched and the result is flagged as suppressed.
func (s *BadgeService) Apply(ctx context.Context, registry string, pages []string) (BadgeResult, error) {
	result := BadgeResult{Pages: len(pages)}

	var marked []markedPage
	for _, path := range pages {
		info, err := os.Stat(path)
		if err != nil {
			return result, fmt.Errorf("failed to stat page: %w", err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return result, fmt.Errorf("failed to read page: %w", err)
		}
		id, ok := badge.ReviewID(content)
		if !ok {
			continue
		}
		marked = append(marked, markedPage{path: path, content: content, reviewID: id, mode: info.Mode().Perm()})
	}
	result.Marked = len(marked)
	if len(marked) == 0 {
		s.log.Debugw("no page carries a review marker", "pages", len(pages))
		return result, nil
	}

	reg, err := s.fetcher.Fetch(ctx, registry)
	if err != nil {
		s.log.Debugw("registry unavailable, skipping badges", "registry", registry, "error", err)
		result.Suppressed = true
		return result, nil
	}

	for _, page := range marked {
		b := badge.Resolve(page.reviewID, reg)
		rendered, err := badge.Render(b)
		if err != nil {
			return result, err
		}
		out, ok := badge.Inject(page.content, rendered)
		if !ok {
			s.log.Warnw("page has no badge anchor", "page", page.path)
			result.NoAnchor++
			continue
		}
		if err := os.WriteFile(page.path, out, page.mode); err != nil {
			return result, fmt.Errorf("failed to write page: %w", err)
		}
		s.log.Debugw("badged page", "page", page.path, "review_id", b.ReviewID, "state", b.State)
		result.Badged++
	}
	return result, nil
}

// HTMLPages lists the .html files under dir in lexical order
func HTMLPages(dir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".html") {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return pages, nil
}
