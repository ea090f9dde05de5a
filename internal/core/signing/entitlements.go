package signing

import (
	"errors"
	"fmt"
)

// EntitlementApplicationIdentifier is the entitlement key holding the
// team-prefixed bundle identifier.
const EntitlementApplicationIdentifier = "application-identifier"

// ErrNoApplicationIdentifier is returned when a profile's entitlements do not
// carry a usable application identifier.
var ErrNoApplicationIdentifier = errors.New("entitlements missing application-identifier")

// Entitlements is the entitlements dictionary embedded in a provisioning
// profile.
type Entitlements map[string]any

// ApplicationIdentifier returns the application-identifier entitlement. It
// must be present and a non-empty string.
func (e Entitlements) ApplicationIdentifier() (string, error) {
	v, ok := e[EntitlementApplicationIdentifier]
	if !ok {
		return "", ErrNoApplicationIdentifier
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: value is %T, not a string", ErrNoApplicationIdentifier, v)
	}
	if s == "" {
		return "", fmt.Errorf("%w: value is empty", ErrNoApplicationIdentifier)
	}

	return s, nil
}
