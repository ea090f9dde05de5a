// Package catalogdir serves signing identities and provisioning profiles from
// a directory on disk. Identities come from a YAML file; profiles are the
// decoded plist payloads of provisioning profiles, one file per profile.
package catalogdir

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"howett.net/plist"

	"github.com/colonyops/iossign/internal/core/signing"
)

// Options configures a Catalog.
type Options struct {
	// Dir is the catalog root.
	Dir string
	// IdentitiesFile is relative to Dir unless absolute.
	IdentitiesFile string
	// ProfilePatterns are doublestar globs relative to Dir.
	ProfilePatterns []string
	// IncludeExpired keeps expired profiles in listings.
	IncludeExpired bool
}

// Catalog implements signing.Provider. Nothing is cached; every call reads
// the directory again.
type Catalog struct {
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

var _ signing.Provider = (*Catalog)(nil)

// New creates a catalog reading from opts.Dir.
func New(opts Options, logger zerolog.Logger) *Catalog {
	return &Catalog{opts: opts, log: logger, now: time.Now}
}

type identitiesFile struct {
	Identities []signing.Identity `yaml:"identities"`
}

// profilePayload is the subset of a provisioning profile plist we use.
type profilePayload struct {
	Name           string               `plist:"Name"`
	UUID           string               `plist:"UUID"`
	Entitlements   signing.Entitlements `plist:"Entitlements"`
	ExpirationDate time.Time            `plist:"ExpirationDate"`
}

// ListSigningIdentities reads the identities file. A missing file is an empty
// catalog.
func (c *Catalog) ListSigningIdentities(ctx context.Context) ([]signing.Identity, error) {
	path := c.opts.IdentitiesFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.opts.Dir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.log.Debug().Str("path", path).Msg("identities file not found")
			return []signing.Identity{}, nil
		}
		return nil, fmt.Errorf("read identities: %w", err)
	}

	var file identitiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse identities %s: %w", path, err)
	}

	identities := make([]signing.Identity, 0, len(file.Identities))
	for i, id := range file.Identities {
		if id.Fingerprint == "" {
			c.log.Warn().Int("index", i).Str("name", id.Name).Msg("skipping identity without fingerprint")
			continue
		}
		identities = append(identities, id)
	}

	return identities, nil
}

// ListProvisioningProfiles decodes every file matching the profile patterns,
// in path order. Unreadable files are logged and skipped; expired profiles are
// dropped unless IncludeExpired is set.
func (c *Catalog) ListProvisioningProfiles(ctx context.Context) ([]signing.Profile, error) {
	paths, err := c.profilePaths()
	if err != nil {
		return nil, err
	}

	now := c.now()
	profiles := make([]signing.Profile, 0, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := c.readProfile(rel)
		if err != nil {
			c.log.Warn().Err(err).Str("path", rel).Msg("skipping unreadable profile")
			continue
		}

		if !c.opts.IncludeExpired && p.Expired(now) {
			c.log.Debug().Str("uuid", p.UUID).Time("expired", p.ExpirationDate).Msg("skipping expired profile")
			continue
		}

		profiles = append(profiles, p)
	}

	return profiles, nil
}

func (c *Catalog) profilePaths() ([]string, error) {
	fsys := os.DirFS(c.opts.Dir)

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range c.opts.ProfilePatterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	slices.Sort(paths)
	return paths, nil
}

func (c *Catalog) readProfile(rel string) (signing.Profile, error) {
	data, err := fs.ReadFile(os.DirFS(c.opts.Dir), rel)
	if err != nil {
		return signing.Profile{}, err
	}

	var payload profilePayload
	if _, err := plist.Unmarshal(data, &payload); err != nil {
		return signing.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if payload.UUID == "" {
		return signing.Profile{}, fmt.Errorf("profile has no UUID")
	}

	return signing.Profile{
		Name:           payload.Name,
		UUID:           payload.UUID,
		Entitlements:   payload.Entitlements,
		ExpirationDate: payload.ExpirationDate,
	}, nil
}
