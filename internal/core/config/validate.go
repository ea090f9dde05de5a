package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/iossign/internal/core/launch"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// glob syntax and file accessibility. The configPath argument specifies the
// config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validatePatterns(),
		criterio.Run("launch.default", c.Launch.Default, launch.CheckName),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if _, err := os.Stat(c.Catalog.Dir); os.IsNotExist(err) {
		warnings = append(warnings, ValidationWarning{
			Category: "Catalog",
			Item:     c.Catalog.Dir,
			Message:  "catalog directory does not exist; identity and profile lists will be empty",
		})
		return warnings
	}

	if _, err := os.Stat(c.identitiesPath()); os.IsNotExist(err) {
		warnings = append(warnings, ValidationWarning{
			Category: "Catalog",
			Item:     c.identitiesPath(),
			Message:  "identities file does not exist; identity list will be empty",
		})
	}

	return warnings
}

func (c *Config) identitiesPath() string {
	if filepath.IsAbs(c.Catalog.IdentitiesFile) {
		return c.Catalog.IdentitiesFile
	}
	return filepath.Join(c.Catalog.Dir, c.Catalog.IdentitiesFile)
}

// validateFileAccess checks the config file, data directory, catalog directory
// and launch file location.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("catalog.dir", c.Catalog.Dir, isDirectoryOrNotExist),
		criterio.Run("launch.file", c.Launch.File, isFileOrNotExist),
	)
}

// validatePatterns checks profile glob syntax.
func (c *Config) validatePatterns() error {
	var errs criterio.FieldErrorsBuilder
	for i, p := range c.Catalog.ProfilePatterns {
		if !doublestar.ValidatePattern(p) {
			errs = errs.Append(fmt.Sprintf("catalog.profile_patterns[%d]", i), fmt.Errorf("invalid glob %q", p))
		}
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isFileOrNotExist validates that a path is a regular file or doesn't exist.
func isFileOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory, not a file")
	}
	return nil
}
