// Package config loads and validates the siteforge configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

// Config represents the application configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Workspace string          `yaml:"workspace"`
	Generator GeneratorConfig `yaml:"generator"`
	Root      RootConfig      `yaml:"root"`
	Features  FeaturesConfig  `yaml:"features"`
	Units     []Unit          `yaml:"units"`
	Serve     ServeConfig     `yaml:"serve"`
	Content   ContentConfig   `yaml:"content"`
	History   HistoryConfig   `yaml:"history"`
}

// SiteConfig carries site-wide presentation settings.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// GeneratorConfig describes the external static-site generator invocation.
// The generator is a black box: exit 0 means success, anything else failure.
type GeneratorConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// RootConfig describes the root build unit. Its build runs first and its
// failure aborts the whole run, because the measures artifact it produces is
// a precondition for feature-page generation.
type RootConfig struct {
	Dir      string `yaml:"dir"`
	Measures string `yaml:"measures"` // measures artifact path, relative to the root dir
}

// FeaturesConfig controls generated feature pages (the bridging step).
type FeaturesConfig struct {
	Output   string `yaml:"output"`             // directory receiving generated pages, relative to workspace
	Template string `yaml:"template,omitempty"` // optional custom page template path
}

// Unit is one content folder built in declared order. The sequence in the
// config file is the build order; `after` entries only declare the
// dependencies that order must already satisfy.
type Unit struct {
	Name  string   `yaml:"name"`
	Dir   string   `yaml:"dir,omitempty"` // defaults to name
	After []string `yaml:"after,omitempty"`
}

// ServeConfig configures the public endpoint.
type ServeConfig struct {
	Port            int    `yaml:"port"`
	SiteDir         string `yaml:"site_dir"`                   // built output served as the real site, relative to workspace
	MaintenancePage string `yaml:"maintenance_page,omitempty"` // optional markdown file overriding the built-in page
	Metrics         bool   `yaml:"metrics,omitempty"`
	RebuildEvery    string `yaml:"rebuild_every,omitempty"` // duration string, e.g. "6h"; empty disables
}

// ContentConfig optionally points at a git repository holding the site content.
type ContentConfig struct {
	Repo     string `yaml:"repo,omitempty"`
	Branch   string `yaml:"branch,omitempty"`
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// HistoryConfig configures the build-report history store.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"` // sqlite file; empty disables history
}

// Load reads, expands, and validates a configuration file.
func Load(path string) (*Config, error) {
	// .env values feed ${VAR} expansion below; absence is not an error.
	_ = godotenv.Load(".env", ".env.local")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, sferrors.ConfigNotFound(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, sferrors.Wrap(err, sferrors.CategoryConfig, sferrors.SeverityFatal, "failed to parse configuration")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
