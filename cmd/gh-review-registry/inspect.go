package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-review-registry/internal/review"
	"github.com/ryo246912/gh-review-registry/internal/service"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	var repoName string

	cmd := &cobra.Command{
		Use:   "inspect ISSUE_NUMBER",
		Short: "Show what the registry builder reads from one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue number: %w", err)
			}

			client, repo, err := newGitHub(firstNonEmpty(repoName, cfg.ReviewsRepo))
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			result, err := service.NewInspectService(client, repo).Inspect(cmd.Context(), number)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "issue:      #%d %s\n", result.Issue, result.URL)
			if result.Err != nil {
				fmt.Fprintf(w, "excluded:   %v\n", result.Err)
				return nil
			}
			c := result.Candidate
			fmt.Fprintf(w, "review id:  %s\n", c.Metadata.Key())
			fmt.Fprintf(w, "state:      %s\n", c.State)
			if c.Metadata.DOIURL != "" {
				fmt.Fprintf(w, "doi:        %s\n", c.Metadata.DOIURL)
			}
			if c.Metadata.ReviewCommitSHA != "" {
				fmt.Fprintf(w, "commit:     %s\n", c.Metadata.ReviewCommitSHA)
			}
			if !c.Metadata.ReviewedAt.IsZero() {
				fmt.Fprintf(w, "reviewed:   %s\n", c.Metadata.ReviewedAt.Format(review.DateLayout))
			}
			if len(c.Metadata.Reviewers) > 0 {
				fmt.Fprintf(w, "reviewers:  %s\n", strings.Join(c.Metadata.Reviewers, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&repoName, "repo", "", "reviews repository (OWNER/REPO)")

	return cmd
}
