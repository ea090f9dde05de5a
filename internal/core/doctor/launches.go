package doctor

import (
	"context"
	"errors"
	"strings"

	"github.com/colonyops/iossign/internal/core/launch"
	"github.com/colonyops/iossign/internal/core/selection"
	"github.com/colonyops/iossign/internal/core/signing"
)

// LaunchesCheck reports stored launch configurations whose signing
// attributes are unreadable or refer to identities or profiles that no
// longer exist.
type LaunchesCheck struct {
	store    launch.Store
	provider signing.Provider
}

// NewLaunchesCheck creates a launches check.
func NewLaunchesCheck(store launch.Store, provider signing.Provider) *LaunchesCheck {
	return &LaunchesCheck{store: store, provider: provider}
}

func (c *LaunchesCheck) Name() string {
	return "Launch Configurations"
}

func (c *LaunchesCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	configs, err := c.store.List(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Launch file",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	if len(configs) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "Launch file",
			Status: StatusPass,
			Detail: "no configurations saved yet",
		})
		return result
	}

	identities, idErr := c.provider.ListSigningIdentities(ctx)
	profiles, profErr := c.provider.ListProvisioningProfiles(ctx)
	if err := errors.Join(idErr, profErr); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Catalog",
			Status: StatusWarn,
			Detail: "catalog unavailable, reference check skipped: " + err.Error(),
		})
		return result
	}

	identityList := selection.NewList[signing.Identity](
		selection.Sentinel{Kind: selection.KindAuto, Label: "Auto"},
		selection.Sentinel{Kind: selection.KindSkipSigning, Label: "Skip Signing"},
	)
	profileList := selection.NewList[signing.Profile](
		selection.Sentinel{Kind: selection.KindAuto, Label: "Auto"},
	)

	for _, cfg := range configs {
		item := checkLaunch(cfg, func(signingID, profileID string) []string {
			var stale []string
			if signingID != "" && identityList.Restore(identities, signingID, false) == selection.Auto {
				stale = append(stale, "identity "+signingID)
			}
			if profileID != "" && profileList.Restore(profiles, profileID, false) == selection.Auto {
				stale = append(stale, "profile "+profileID)
			}
			return stale
		})
		result.Items = append(result.Items, item)
	}

	return result
}

// staleFunc returns the stored references that restore to Auto.
type staleFunc func(signingID, profileID string) []string

func checkLaunch(cfg launch.Config, staleRefs staleFunc) CheckItem {
	item := CheckItem{Label: cfg.Name, Status: StatusPass}

	skip, skipErr := cfg.Bool(launch.AttrSkipSigning, false)
	signingID, idErr := cfg.String(launch.AttrSigningID, "")
	profileID, profErr := cfg.String(launch.AttrProvisioningProfile, "")

	if err := errors.Join(skipErr, idErr, profErr); err != nil {
		item.Status = StatusFail
		item.Detail = err.Error()
		item.Fixable = true
		return item
	}

	if skip {
		item.Detail = "signing skipped"
		return item
	}

	if stale := staleRefs(signingID, profileID); len(stale) > 0 {
		item.Status = StatusWarn
		item.Detail = strings.Join(stale, ", ") + " not in catalog; restores to Auto"
		item.Fixable = true
		return item
	}

	item.Detail = "ok"
	return item
}
