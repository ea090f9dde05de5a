// Package yamlfile stores launch configurations in a single YAML file.
package yamlfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/iossign/internal/core/launch"
)

// LaunchFile is the root YAML structure stored on disk.
type LaunchFile struct {
	Configurations []launch.Config `yaml:"configurations"`
}

// LaunchStore implements launch.Store on top of a YAML file.
type LaunchStore struct {
	path string
	mu   sync.RWMutex
}

var _ launch.Store = (*LaunchStore)(nil)

// NewLaunchStore creates a store backed by the file at path. The file is
// created on first save.
func NewLaunchStore(path string) *LaunchStore {
	return &LaunchStore{path: path}
}

// Path returns the backing file path.
func (s *LaunchStore) Path() string { return s.path }

// List returns all configurations in file order.
func (s *LaunchStore) List(ctx context.Context) ([]launch.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}

	return file.Configurations, nil
}

// Get returns the configuration called name. Returns launch.ErrNotFound if
// there is none.
func (s *LaunchStore) Get(ctx context.Context, name string) (launch.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return launch.Config{}, err
	}

	for _, cfg := range file.Configurations {
		if cfg.Name == name {
			return cfg, nil
		}
	}

	return launch.Config{}, fmt.Errorf("%q: %w", name, launch.ErrNotFound)
}

// Save replaces the configuration with the same name, or appends it.
func (s *LaunchStore) Save(ctx context.Context, cfg launch.Config) error {
	if err := launch.ValidateName(cfg.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range file.Configurations {
		if file.Configurations[i].Name == cfg.Name {
			file.Configurations[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		file.Configurations = append(file.Configurations, cfg)
	}

	return s.save(file)
}

// Delete removes the configuration called name. Returns launch.ErrNotFound if
// there is none.
func (s *LaunchStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	kept := file.Configurations[:0]
	found := false
	for _, cfg := range file.Configurations {
		if cfg.Name == name {
			found = true
			continue
		}
		kept = append(kept, cfg)
	}
	if !found {
		return fmt.Errorf("%q: %w", name, launch.ErrNotFound)
	}

	file.Configurations = kept
	return s.save(file)
}

// load reads the launch file from disk.
// Returns an empty LaunchFile if the file doesn't exist.
func (s *LaunchStore) load() (LaunchFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return LaunchFile{}, nil
		}
		return LaunchFile{}, fmt.Errorf("read launch file: %w", err)
	}

	if len(data) == 0 {
		return LaunchFile{}, nil
	}

	var file LaunchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return LaunchFile{}, fmt.Errorf("parse launch file: %w", err)
	}

	return file, nil
}

// save writes the launch file to disk atomically.
func (s *LaunchStore) save(file LaunchFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
