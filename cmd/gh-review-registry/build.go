package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-review-registry/internal/service"
	"github.com/ryo246912/gh-review-registry/internal/staleness"
)

type buildOptions struct {
	fixture      string
	repo         string
	out          string
	repoDir      string
	sourcePrefix string
}

func newBuildCmd(root *rootOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the review registry from review-tracking issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.fixture, "fixture", "", "load issues from this JSON file instead of GitHub")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "reviews repository (OWNER/REPO)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output path of the registry")
	cmd.Flags().StringVar(&opts.repoDir, "repo-dir", "", "content checkout used to detect stale reviews")
	cmd.Flags().StringVar(&opts.sourcePrefix, "source-prefix", "", "book root inside the content checkout")
	cmd.MarkFlagsMutuallyExclusive("fixture", "repo")

	return cmd
}

func runBuild(cmd *cobra.Command, root *rootOptions, opts *buildOptions) error {
	cfg, log, err := root.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out := firstNonEmpty(opts.out, cfg.Out)
	repoDir := firstNonEmpty(opts.repoDir, cfg.RepoDir)
	sourcePrefix := firstNonEmpty(opts.sourcePrefix, cfg.SourcePrefix)

	var source service.IssueSource
	if opts.fixture != "" {
		source = service.FixtureSource{Path: opts.fixture}
	} else {
		client, repo, err := newGitHub(firstNonEmpty(opts.repo, cfg.ReviewsRepo))
		if err != nil {
			return fmt.Errorf("failed to create GitHub client: %w", err)
		}
		source = service.NewGitHubSource(client, repo)
	}

	var lookup staleness.CommitLookup
	if repoDir != "" {
		lookup = staleness.Git{Dir: repoDir}
	}

	generatedAt, err := service.BuildTime(time.Now)
	if err != nil {
		return err
	}

	result, err := service.NewBuildService(source, lookup, log).Run(cmd.Context(), service.BuildOptions{
		Out:          out,
		SourcePrefix: sourcePrefix,
		GeneratedAt:  generatedAt,
	})
	if err != nil {
		log.Errorw("registry build failed", "error", err)
		return err
	}

	msg := fmt.Sprintf("Wrote %s: %d review(s)", result.Out, result.Report.Entries)
	if n := len(result.Report.Skipped); n > 0 {
		msg += fmt.Sprintf(", %d issue(s) skipped", n)
	}
	if result.StaleCount > 0 {
		msg += fmt.Sprintf(", %d marked stale", result.StaleCount)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
