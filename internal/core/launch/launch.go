// Package launch defines launch configuration records: named sets of
// attributes that device launches read their signing settings from.
package launch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/hay-kot/criterio"
)

// Attribute names for iOS device launches.
const (
	AttrSigningID           = "ios.device.signing_id"
	AttrSkipSigning         = "ios.device.skip_signing"
	AttrProvisioningProfile = "ios.device.provisioning_profile"
)

var (
	// ErrNotFound is returned when a named configuration does not exist.
	ErrNotFound = errors.New("launch configuration not found")
	// ErrWrongType is returned when an attribute holds a value of an
	// unexpected type.
	ErrWrongType = errors.New("attribute has wrong type")
)

// Reader reads attributes. A missing attribute yields def.
type Reader interface {
	String(name, def string) (string, error)
	Bool(name string, def bool) (bool, error)
}

// Writer sets attributes. An empty string removes the attribute.
type Writer interface {
	SetString(name, value string)
	SetBool(name string, value bool)
}

// Store persists launch configurations.
type Store interface {
	List(ctx context.Context) ([]Config, error)
	Get(ctx context.Context, name string) (Config, error)
	Save(ctx context.Context, cfg Config) error
	Delete(ctx context.Context, name string) error
}

// Config is one launch configuration.
type Config struct {
	Name       string         `yaml:"name"       json:"name"`
	Attributes map[string]any `yaml:"attributes" json:"attributes,omitempty"`
}

// New returns an empty configuration with the given name.
func New(name string) Config {
	return Config{Name: name, Attributes: map[string]any{}}
}

// String returns the string attribute name, or def when unset.
func (c Config) String(name, def string) (string, error) {
	v, ok := c.Attributes[name]
	if !ok || v == nil {
		return def, nil
	}

	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("%s: %w: got %T, want string", name, ErrWrongType, v)
	}
	return s, nil
}

// Bool returns the bool attribute name, or def when unset.
func (c Config) Bool(name string, def bool) (bool, error) {
	v, ok := c.Attributes[name]
	if !ok || v == nil {
		return def, nil
	}

	b, ok := v.(bool)
	if !ok {
		return def, fmt.Errorf("%s: %w: got %T, want bool", name, ErrWrongType, v)
	}
	return b, nil
}

// WorkingCopy returns a mutable copy of c.
func (c Config) WorkingCopy() *WorkingCopy {
	return &WorkingCopy{
		Config: Config{
			Name:       c.Name,
			Attributes: maps.Clone(c.Attributes),
		},
	}
}

// WorkingCopy is an editable configuration. Changes are only persisted by
// passing Config() to a Store.
type WorkingCopy struct {
	Config
	dirty bool
}

// SetString sets or, for an empty value, removes a string attribute.
func (w *WorkingCopy) SetString(name, value string) {
	if value == "" {
		w.remove(name)
		return
	}
	w.set(name, value)
}

// SetBool sets a bool attribute.
func (w *WorkingCopy) SetBool(name string, value bool) {
	w.set(name, value)
}

// Dirty reports whether any attribute changed since the copy was made.
func (w *WorkingCopy) Dirty() bool { return w.dirty }

func (w *WorkingCopy) set(name string, value any) {
	if w.Attributes == nil {
		w.Attributes = map[string]any{}
	}
	if old, ok := w.Attributes[name]; ok && old == value {
		return
	}
	w.Attributes[name] = value
	w.dirty = true
}

func (w *WorkingCopy) remove(name string) {
	if _, ok := w.Attributes[name]; !ok {
		return
	}
	delete(w.Attributes, name)
	w.dirty = true
}

// CheckName reports why name cannot be used as a configuration name.
func CheckName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(name, "\n\r\t") {
		return fmt.Errorf("name cannot contain control whitespace")
	}
	return nil
}

// ValidateName returns a criterio validator for configuration names.
func ValidateName(name string) error {
	return criterio.Run("name", name, CheckName)
}
