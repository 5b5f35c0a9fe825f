package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-review-registry/internal/badge"
	"github.com/ryo246912/gh-review-registry/internal/service"
	"github.com/ryo246912/gh-review-registry/internal/ui"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var registry string

	cmd := &cobra.Command{
		Use:   "show [REVIEW_ID]",
		Short: "Show the badge a page with this review id would get",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			svc := service.NewShowService(badge.NewFetcher(nil), &ui.DefaultPrompter{})
			b, err := svc.Show(cmd.Context(), firstNonEmpty(registry, cfg.Registry), args)
			if err != nil {
				return err
			}
			printBadge(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().StringVar(&registry, "registry", "", "registry path or URL")

	return cmd
}

func printBadge(w io.Writer, b badge.Badge) {
	fmt.Fprintf(w, "%s %s\n", ui.PadRight("review id:", 11), b.ReviewID)
	fmt.Fprintf(w, "%s %s (%s)\n", ui.PadRight("state:", 11), b.State, b.State.Label())
	if b.IssueURL != "" {
		fmt.Fprintf(w, "%s %s\n", ui.PadRight("issue:", 11), b.IssueURL)
	}
	if b.DOIURL != "" {
		fmt.Fprintf(w, "%s %s\n", ui.PadRight("doi:", 11), b.DOIURL)
	}
	if len(b.Reviewers) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.PadRight("reviewers:", 11), strings.Join(b.Reviewers, ", "))
	}
}
