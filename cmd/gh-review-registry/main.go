package main

import (
	"os"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ryo246912/gh-review-registry/internal/config"
	"github.com/ryo246912/gh-review-registry/internal/github"
	"github.com/ryo246912/gh-review-registry/internal/logger"
)

// RepositoryAdapter adapts repository.Repository to our interface
type RepositoryAdapter struct {
	repo *repository.Repository
}

func (r *RepositoryAdapter) GetOwner() string {
	return r.repo.Owner
}

func (r *RepositoryAdapter) GetName() string {
	return r.repo.Name
}

type rootOptions struct {
	configPath string
	logLevel   string
}

// setup loads configuration and builds the logger shared by all subcommands
func (o *rootOptions) setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newGitHub resolves an owner/repo identifier and creates an API client for its host
func newGitHub(fullName string) (*github.Client, *RepositoryAdapter, error) {
	repo, err := repository.Parse(fullName)
	if err != nil {
		return nil, nil, err
	}
	client, err := github.NewClient(github.Options{
		Host:      repo.Host,
		AuthToken: config.Token(),
	})
	if err != nil {
		return nil, nil, err
	}
	return client, &RepositoryAdapter{repo: &repo}, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "review-registry",
		Short:        "Build the peer-review registry and stamp review badges",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newBuildCmd(opts),
		newBadgeCmd(opts),
		newShowCmd(opts),
		newInspectCmd(opts),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
