// Package signing defines the code-signing identities and provisioning
// profiles that a device launch can be configured with, and the provider
// interface used to list them.
package signing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by lookups when no item matches the requested key.
var ErrNotFound = errors.New("not found")

// Provider lists the identities and profiles that currently exist. Callers
// must not cache the results; profiles expire and identities are revoked
// between calls.
type Provider interface {
	ListSigningIdentities(ctx context.Context) ([]Identity, error)
	ListProvisioningProfiles(ctx context.Context) ([]Profile, error)
}

// Identity is a code-signing certificate usable for device builds.
type Identity struct {
	Name        string `yaml:"name"        json:"name"`
	Fingerprint string `yaml:"fingerprint" json:"fingerprint"`
}

// Key returns the fingerprint, which is what gets persisted.
func (i Identity) Key() string { return i.Fingerprint }

// Label returns the display name.
func (i Identity) Label() (string, error) { return i.Name, nil }

// Profile is a provisioning profile authorizing an application identifier.
type Profile struct {
	Name           string       `json:"name"`
	UUID           string       `json:"uuid"`
	Entitlements   Entitlements `json:"entitlements,omitempty"`
	ExpirationDate time.Time    `json:"expiration_date"`
}

// Key returns the profile UUID, which is what gets persisted.
func (p Profile) Key() string { return p.UUID }

// Label returns "<name> (<application-identifier>)". A profile whose
// entitlements carry no application identifier cannot be labelled.
func (p Profile) Label() (string, error) {
	appID, err := p.Entitlements.ApplicationIdentifier()
	if err != nil {
		return "", fmt.Errorf("profile %s: %w", p.UUID, err)
	}
	return p.Name + " (" + appID + ")", nil
}

// Expired reports whether the profile is no longer valid at now. A zero
// expiration date never expires.
func (p Profile) Expired(now time.Time) bool {
	return !p.ExpirationDate.IsZero() && !now.Before(p.ExpirationDate)
}

// LookupIdentity returns the position of the identity matching key. The
// fingerprint must match exactly; otherwise the first identity whose name
// starts with key is used.
func LookupIdentity(items []Identity, key string) (int, error) {
	if key == "" {
		return -1, fmt.Errorf("identity %q: %w", key, ErrNotFound)
	}

	for i, id := range items {
		if id.Fingerprint == key {
			return i, nil
		}
	}

	for i, id := range items {
		if strings.HasPrefix(id.Name, key) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("identity %q: %w", key, ErrNotFound)
}

// LookupProfile returns the position of the profile with the given UUID, or
// failing that the first profile with exactly that name.
func LookupProfile(items []Profile, key string) (int, error) {
	if key == "" {
		return -1, fmt.Errorf("profile %q: %w", key, ErrNotFound)
	}

	for i, p := range items {
		if p.UUID == key {
			return i, nil
		}
	}

	for i, p := range items {
		if p.Name == key {
			return i, nil
		}
	}

	return -1, fmt.Errorf("profile %q: %w", key, ErrNotFound)
}
