package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment variable the loader reads.
	EnvPrefix = "GALAXY_LAUNCH"

	appDirName     = "galaxy-launch"
	configFileName = "config.yaml"
)

// Loader handles configuration loading with Viper.
//
// Create with [NewLoader]. [Loader.Load] walks the configuration priority list
// documented on the package; [Loader.LoadFromFile] reads one explicit file.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader] with defaults and environment bindings applied.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases for the settings people override most.
	_ = v.BindEnv("platform.base_url", EnvPrefix+"_BASE_URL")
	_ = v.BindEnv("platform.api_key", EnvPrefix+"_API_KEY")
	_ = v.BindEnv("launcher.strategy", EnvPrefix+"_STRATEGY")

	return &Loader{v: v}
}

// setDefaults registers every key of cfg with Viper so that AutomaticEnv can
// override it and Unmarshal sees it even when no file is read.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("platform.base_url", cfg.Platform.BaseURL)
	v.SetDefault("platform.api_key", cfg.Platform.APIKey)
	v.SetDefault("platform.timeout", cfg.Platform.Timeout)

	v.SetDefault("launcher.strategy", cfg.Launcher.Strategy)
	v.SetDefault("launcher.rescans", cfg.Launcher.Rescans)
	v.SetDefault("launcher.rescan_backoff", cfg.Launcher.RescanBackoff)
	v.SetDefault("launcher.timeout", cfg.Launcher.Timeout)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)

	v.SetDefault("landing.title", cfg.Landing.Title)
	v.SetDefault("landing.subtitle", cfg.Landing.Subtitle)
	v.SetDefault("landing.intro", cfg.Landing.Intro)

	links := make([]map[string]any, 0, len(cfg.Landing.Links))
	for _, l := range cfg.Landing.Links {
		links = append(links, map[string]any{"label": l.Label, "url": l.URL})
	}
	v.SetDefault("landing.links", links)

	v.SetDefault("featured", []map[string]any{})
	v.SetDefault("catalog_path", cfg.CatalogPath)
}

// Load reads configuration following the documented priority order.
//
// A missing config file is not an error; the defaults (plus environment
// overrides) are returned instead. A config file that exists but cannot be
// parsed is an error.
func (l *Loader) Load() (*Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		return l.LoadFromFile(path)
	}
	return l.unmarshal()
}

// LoadFromFile reads configuration from the given file. The format is
// inferred from the file extension (YAML, JSON and TOML are supported).
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveConfigPath returns the first config file found in priority order,
// or "" when none exists.
func resolveConfigPath() (string, error) {
	if envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH"); envPath != "" {
		return envPath, nil
	}

	if userPath, err := DefaultConfigPath(); err == nil {
		if _, err := os.Stat(userPath); err == nil {
			return userPath, nil
		}
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %s: %w", configFileName, err)
	}

	return "", nil
}

// Validate checks settings that would otherwise fail later in a confusing way.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Platform.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid platform.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("platform.base_url must use http or https, got: %q", c.Platform.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("platform.base_url must have a host, got: %q", c.Platform.BaseURL)
	}
	if c.Platform.Timeout <= 0 {
		return fmt.Errorf("platform.timeout must be positive, got: %s", c.Platform.Timeout)
	}
	if c.Launcher.Rescans < 1 {
		return fmt.Errorf("launcher.rescans must be at least 1, got: %d", c.Launcher.Rescans)
	}
	if c.Launcher.RescanBackoff < 0 {
		return fmt.Errorf("launcher.rescan_backoff must not be negative, got: %s", c.Launcher.RescanBackoff)
	}
	return nil
}

// ConfigDir returns the platform-standard configuration directory for galaxy-launch.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// DefaultConfigPath returns the path of the config file in [ConfigDir].
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
