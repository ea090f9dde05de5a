package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/iossign/internal/core/signing"
)

// CatalogCheck inspects the identities and profiles a launch can choose from.
type CatalogCheck struct {
	provider signing.Provider
	now      func() time.Time
}

// NewCatalogCheck creates a catalog check reading from provider.
func NewCatalogCheck(provider signing.Provider) *CatalogCheck {
	return &CatalogCheck{provider: provider, now: time.Now}
}

func (c *CatalogCheck) Name() string {
	return "Catalog"
}

func (c *CatalogCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	identities, err := c.provider.ListSigningIdentities(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Signing identities",
			Status: StatusFail,
			Detail: err.Error(),
		})
	} else {
		result.Items = append(result.Items, identityItems(identities)...)
	}

	profiles, err := c.provider.ListProvisioningProfiles(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Provisioning profiles",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, c.profileItems(profiles)...)
	return result
}

func identityItems(identities []signing.Identity) []CheckItem {
	if len(identities) == 0 {
		return []CheckItem{{
			Label:  "Signing identities",
			Status: StatusWarn,
			Detail: "none found; only Auto and Skip Signing can be chosen",
		}}
	}

	items := []CheckItem{{
		Label:  "Signing identities",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d found", len(identities)),
	}}

	seen := make(map[string]string, len(identities))
	for _, id := range identities {
		if first, ok := seen[id.Key()]; ok {
			items = append(items, CheckItem{
				Label:  id.Name,
				Status: StatusWarn,
				Detail: fmt.Sprintf("fingerprint %s also used by %q; the first entry wins", id.Key(), first),
			})
			continue
		}
		seen[id.Key()] = id.Name
	}

	return items
}

func (c *CatalogCheck) profileItems(profiles []signing.Profile) []CheckItem {
	if len(profiles) == 0 {
		return []CheckItem{{
			Label:  "Provisioning profiles",
			Status: StatusWarn,
			Detail: "none found; only Auto can be chosen",
		}}
	}

	items := []CheckItem{{
		Label:  "Provisioning profiles",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d found", len(profiles)),
	}}

	now := c.now()
	for _, p := range profiles {
		if _, err := p.Label(); err != nil {
			items = append(items, CheckItem{
				Label:  p.Name,
				Status: StatusFail,
				Detail: err.Error(),
			})
			continue
		}
		if p.Expired(now) {
			items = append(items, CheckItem{
				Label:  p.Name,
				Status: StatusWarn,
				Detail: "expired " + p.ExpirationDate.Format(time.DateOnly),
			})
		}
	}

	return items
}
