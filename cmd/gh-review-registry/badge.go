package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-review-registry/internal/badge"
	"github.com/ryo246912/gh-review-registry/internal/service"
)

func newBadgeCmd(root *rootOptions) *cobra.Command {
	var (
		registry string
		siteDir  string
	)

	cmd := &cobra.Command{
		Use:   "badge [PAGE...]",
		Short: "Insert review badges into built HTML pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			pages := args
			if siteDir != "" {
				found, err := service.HTMLPages(siteDir)
				if err != nil {
					return err
				}
				pages = append(pages, found...)
			}
			if len(pages) == 0 {
				return fmt.Errorf("no pages given: pass page paths or --site-dir")
			}

			svc := service.NewBadgeService(badge.NewFetcher(nil), log)
			result, err := svc.Apply(cmd.Context(), firstNonEmpty(registry, cfg.Registry), pages)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Badged %d of %d page(s) with a review marker\n", result.Badged, result.Marked)
			return nil
		},
	}
	cmd.Flags().StringVar(&registry, "registry", "", "registry path or URL")
	cmd.Flags().StringVar(&siteDir, "site-dir", "", "badge every .html page under this directory")

	return cmd
}
