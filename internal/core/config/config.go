// Package config handles configuration loading and validation for iossign.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/iossign/internal/core/styles"
)

// DefaultProfilePattern matches decoded provisioning profiles anywhere under
// the catalog directory.
const DefaultProfilePattern = "**/*.mobileprovision.plist"

// Config holds the application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Launch  LaunchConfig  `yaml:"launch"`
	Labels  LabelsConfig  `yaml:"labels"`
	Theme   string        `yaml:"theme"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// CatalogConfig locates the identity and profile catalog.
type CatalogConfig struct {
	Dir             string   `yaml:"dir"`              // catalog root, relative paths resolve against the data dir
	IdentitiesFile  string   `yaml:"identities_file"`  // relative to Dir unless absolute
	ProfilePatterns []string `yaml:"profile_patterns"` // doublestar globs relative to Dir
	IncludeExpired  bool     `yaml:"include_expired"`  // list expired profiles too
}

// LaunchConfig locates the launch configuration file.
type LaunchConfig struct {
	File    string `yaml:"file"`    // relative paths resolve against the data dir
	Default string `yaml:"default"` // configuration used when --launch is not given
}

// LabelsConfig holds the display labels of the sentinel entries.
type LabelsConfig struct {
	AutoIdentity string `yaml:"auto_identity"`
	SkipSigning  string `yaml:"skip_signing"`
	AutoProfile  string `yaml:"auto_profile"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			Dir:             "catalog",
			IdentitiesFile:  "identities.yaml",
			ProfilePatterns: []string{DefaultProfilePattern},
		},
		Launch: LaunchConfig{
			File:    "launch.yaml",
			Default: "device",
		},
		Labels: LabelsConfig{
			AutoIdentity: "Auto (starts with 'iPhone Developer')",
			SkipSigning:  "Skip Signing",
			AutoProfile:  "Auto",
		},
		Theme: styles.DefaultTheme,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.resolvePaths()

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Catalog.Dir == "" {
		c.Catalog.Dir = defaults.Catalog.Dir
	}
	if c.Catalog.IdentitiesFile == "" {
		c.Catalog.IdentitiesFile = defaults.Catalog.IdentitiesFile
	}
	if len(c.Catalog.ProfilePatterns) == 0 {
		c.Catalog.ProfilePatterns = defaults.Catalog.ProfilePatterns
	}
	if c.Launch.File == "" {
		c.Launch.File = defaults.Launch.File
	}
	if c.Launch.Default == "" {
		c.Launch.Default = defaults.Launch.Default
	}
	if c.Labels.AutoIdentity == "" {
		c.Labels.AutoIdentity = defaults.Labels.AutoIdentity
	}
	if c.Labels.SkipSigning == "" {
		c.Labels.SkipSigning = defaults.Labels.SkipSigning
	}
	if c.Labels.AutoProfile == "" {
		c.Labels.AutoProfile = defaults.Labels.AutoProfile
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// resolvePaths expands ~ and makes catalog and launch paths absolute against
// the data directory.
func (c *Config) resolvePaths() {
	c.Catalog.Dir = c.resolve(c.Catalog.Dir)
	c.Launch.File = c.resolve(c.Launch.File)
}

func (c *Config) resolve(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if strings.TrimSpace(c.Launch.Default) == "" {
		return fmt.Errorf("launch.default cannot be blank")
	}

	for i, p := range c.Catalog.ProfilePatterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("catalog.profile_patterns[%d] cannot be empty", i)
		}
	}

	if c.Labels.AutoIdentity == c.Labels.SkipSigning {
		return fmt.Errorf("labels.auto_identity and labels.skip_signing must differ")
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("theme %q is not one of %v", c.Theme, styles.ThemeNames())
	}

	return nil
}
