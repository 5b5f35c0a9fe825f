package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory
const DefaultPath = ".nd-review.yml"

// Config holds application configuration.
// Values come from the config file, then the environment; flags are applied
// on top by the command layer.
type Config struct {
	ReviewsRepo  string `yaml:"reviews_repo"`
	Out          string `yaml:"out"`
	RepoDir      string `yaml:"repo_dir"`
	SourcePrefix string `yaml:"source_prefix"`
	Registry     string `yaml:"registry"`
	LogLevel     string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		ReviewsRepo:  "neurodesk/neurodeskedu-reviews",
		Out:          "books/_static/reviews.json",
		SourcePrefix: "books",
		Registry:     "books/_static/reviews.json",
		LogLevel:     "info",
	}
}

// Load reads the YAML file at path (a missing file is not an error) and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.ReviewsRepo = getEnvOrDefault("ND_REVIEWS_REPO", cfg.ReviewsRepo)
	cfg.Out = getEnvOrDefault("ND_REVIEWS_OUT", cfg.Out)
	cfg.RepoDir = getEnvOrDefault("ND_REPO_DIR", cfg.RepoDir)
	cfg.Registry = getEnvOrDefault("ND_REVIEWS_REGISTRY", cfg.Registry)
	cfg.LogLevel = getEnvOrDefault("ND_LOG_LEVEL", cfg.LogLevel)

	return &cfg, nil
}

// Token returns the access token for live fetches, if any
func Token() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
