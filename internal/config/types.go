// Package config provides configuration loading and management for galaxy-launch.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The package provides defaults that point at a local Galaxy
// instance, with the ability to customize the platform endpoint, the launch
// strategy, logging, and the landing-page content shown by the CLI.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [PlatformConfig] describes how to reach the Galaxy REST API
//   - [LauncherConfig] selects the import strategy and post-import re-scan policy
//   - [FeaturedWorkflow] is one entry of the landing page's workflow list
//
// Configuration priority (highest to lowest):
//  1. Environment variables (GALAXY_LAUNCH_ prefix)
//  2. Config file specified by GALAXY_LAUNCH_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/galaxy-launch/config.yaml
//     - macOS: ~/Library/Application Support/galaxy-launch/config.yaml
//     - Windows: %APPDATA%\galaxy-launch\config.yaml
//  4. ./config.yaml
//  5. [DefaultConfig] defaults
package config

import "time"

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used throughout
// the application. Use [DefaultConfig] to get sensible defaults.
type Config struct {
	// Platform describes the Galaxy instance to talk to.
	Platform PlatformConfig `mapstructure:"platform"`

	// Launcher controls how published workflows are resolved to runnable copies.
	Launcher LauncherConfig `mapstructure:"launcher"`

	// Log contains logger settings.
	Log LogConfig `mapstructure:"log"`

	// Landing holds the static landing-page content.
	Landing LandingConfig `mapstructure:"landing"`

	// Featured lists the workflows offered on the landing page, in display order.
	Featured []FeaturedWorkflow `mapstructure:"featured"`

	// CatalogPath optionally points at a CSV or YAML file with more featured
	// workflows. Entries from the file are appended after Featured.
	CatalogPath string `mapstructure:"catalog_path"`
}

// PlatformConfig contains the Galaxy REST API settings.
type PlatformConfig struct {
	// BaseURL is the root of the Galaxy instance, e.g.
	// "https://veupathdb.globusgenomics.org" or "https://host/galaxy" for a
	// Galaxy served under a sub-path. API paths and the run URL are both
	// placed under it.
	BaseURL string `mapstructure:"base_url"`

	// APIKey is sent as the x-api-key header when non-empty.
	// Can be overridden with GALAXY_LAUNCH_API_KEY.
	APIKey string `mapstructure:"api_key"`

	// Timeout bounds each individual HTTP request.
	// Default: 30s
	Timeout time.Duration `mapstructure:"timeout"`
}

// LauncherConfig contains workflow resolution settings.
type LauncherConfig struct {
	// Strategy is either "check-then-import" (default) or "always-import".
	Strategy string `mapstructure:"strategy"`

	// Rescans is the number of times the workflow list is fetched after an
	// import while looking for the new copy. Default: 1
	Rescans int `mapstructure:"rescans"`

	// RescanBackoff is the base delay between re-scans when Rescans > 1.
	// Default: 250ms
	RescanBackoff time.Duration `mapstructure:"rescan_backoff"`

	// Timeout bounds a whole resolution, across all of its calls.
	// Default: 2m
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error". Default: "info"
	Level string `mapstructure:"level"`

	// JSON switches the log formatter from text to JSON.
	JSON bool `mapstructure:"json"`
}

// LandingConfig holds the landing page's title, subtitle, intro and links.
type LandingConfig struct {
	Title    string        `mapstructure:"title"`
	Subtitle string        `mapstructure:"subtitle"`
	Intro    []string      `mapstructure:"intro"`
	Links    []LandingLink `mapstructure:"links"`
}

// LandingLink is a single entry of the landing page's link list.
type LandingLink struct {
	Label string `mapstructure:"label"`
	URL   string `mapstructure:"url"`
}

// FeaturedWorkflow is one row of the landing page's workflow list.
type FeaturedWorkflow struct {
	// Key is the short name used on the command line, e.g. "rnaseq".
	Key string `mapstructure:"key"`

	// WorkflowID is the published workflow's identifier on the platform.
	// It must match the Galaxy instance the launcher is pointed at.
	WorkflowID string `mapstructure:"workflow_id"`

	// Label is the human-readable workflow title.
	Label string `mapstructure:"label"`

	// Description is shown under the label.
	Description string `mapstructure:"description"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
//
// The defaults target a Galaxy instance on localhost, use the check-then-import
// strategy with a single post-import re-scan, and carry the VEuPathDB landing
// page text. No featured workflows are configured by default because their
// identifiers are specific to each Galaxy deployment.
func DefaultConfig() *Config {
	return &Config{
		Platform: PlatformConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Launcher: LauncherConfig{
			Strategy:      "check-then-import",
			Rescans:       1,
			RescanBackoff: 250 * time.Millisecond,
			Timeout:       2 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Landing: LandingConfig{
			Title:    "Welcome to the VEuPathDB Galaxy Site",
			Subtitle: "A free, interactive, web-based platform for large-scale data analysis",
			Intro: []string{
				"Start analyzing your data now with pre-configured workflows. All VEuPathDB genomes are pre-loaded.",
				"Perform large-scale data analysis with no prior programming or bioinformatics experience.",
				"Create custom workflows using an interactive workflow editor.",
				"Export your results to VEuPathDB, so that you can explore your data with our tools, such as JBrowse and search strategies.",
				"View your results on Galaxy or download results to your computer.",
				"Keep data private, or share data with colleagues or the community.",
			},
			Links: []LandingLink{
				{Label: "Public Galaxy resources", URL: "https://wiki.galaxyproject.org/Learn"},
				{Label: "Advanced workflows", URL: "https://wiki.galaxyproject.org/Learn/AdvancedWorkflow"},
			},
		},
	}
}
