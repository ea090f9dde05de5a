// Package devicetab holds the signing settings of an iOS device launch while
// they are being edited. A host drives it through the Tab lifecycle: create,
// initialize from a stored configuration, apply back to a working copy, or
// reset to defaults.
package devicetab

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/iossign/internal/core/launch"
	"github.com/colonyops/iossign/internal/core/selection"
	"github.com/colonyops/iossign/internal/core/signing"
)

// Tab is the lifecycle a host calls into.
type Tab interface {
	OnCreate()
	OnInitialize(ctx context.Context, cfg launch.Reader) error
	OnApply(w launch.Writer)
	OnSetDefaults(w launch.Writer)
}

// Labels are the display strings of the sentinel entries.
type Labels struct {
	AutoIdentity string
	SkipSigning  string
	AutoProfile  string
}

// DefaultLabels returns the stock sentinel labels.
func DefaultLabels() Labels {
	return Labels{
		AutoIdentity: "Auto (starts with 'iPhone Developer')",
		SkipSigning:  "Skip Signing",
		AutoProfile:  "Auto",
	}
}

// DeviceTab edits the signing identity, provisioning profile and skip-signing
// flag of one launch configuration. It keeps the catalogs read during
// OnInitialize until the next OnInitialize.
type DeviceTab struct {
	provider signing.Provider
	labels   Labels
	log      zerolog.Logger

	identityList selection.List[signing.Identity]
	profileList  selection.List[signing.Profile]

	identities    []signing.Identity
	profiles      []signing.Profile
	identityItems []string
	profileItems  []string

	identity selection.Selection
	profile  selection.Selection
	created  bool
}

var _ Tab = (*DeviceTab)(nil)

// New creates a tab reading catalogs from provider.
func New(provider signing.Provider, labels Labels, logger zerolog.Logger) *DeviceTab {
	return &DeviceTab{
		provider: provider,
		labels:   labels,
		log:      logger,
	}
}

// OnCreate builds the empty lists. Both selections start at Auto.
func (t *DeviceTab) OnCreate() {
	t.identityList = selection.NewList[signing.Identity](
		selection.Sentinel{Kind: selection.KindAuto, Label: t.labels.AutoIdentity},
		selection.Sentinel{Kind: selection.KindSkipSigning, Label: t.labels.SkipSigning},
	)
	t.profileList = selection.NewList[signing.Profile](
		selection.Sentinel{Kind: selection.KindAuto, Label: t.labels.AutoProfile},
	)

	t.identities = nil
	t.profiles = nil
	t.identityItems, _ = t.identityList.Display(nil)
	t.profileItems, _ = t.profileList.Display(nil)
	t.identity = selection.Auto
	t.profile = selection.Auto
	t.created = true
}

// OnInitialize reads fresh catalogs and restores the selections stored in
// cfg. Attributes that cannot be read are logged and treated as unset;
// identities or profiles that no longer exist restore to Auto.
func (t *DeviceTab) OnInitialize(ctx context.Context, cfg launch.Reader) error {
	if !t.created {
		t.OnCreate()
	}

	identities, err := t.provider.ListSigningIdentities(ctx)
	if err != nil {
		return fmt.Errorf("list signing identities: %w", err)
	}
	profiles, err := t.provider.ListProvisioningProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list provisioning profiles: %w", err)
	}

	identityItems, err := t.identityList.Display(identities)
	if err != nil {
		return fmt.Errorf("build identity list: %w", err)
	}
	profileItems, err := t.profileList.Display(profiles)
	if err != nil {
		return fmt.Errorf("build profile list: %w", err)
	}

	t.identities, t.identityItems = identities, identityItems
	t.profiles, t.profileItems = profiles, profileItems

	skip, err := cfg.Bool(launch.AttrSkipSigning, false)
	if err != nil {
		t.log.Error().Ctx(ctx).Err(err).Str("attr", launch.AttrSkipSigning).Msg("read attribute")
		skip = false
	}
	signingID, err := cfg.String(launch.AttrSigningID, "")
	if err != nil {
		t.log.Error().Ctx(ctx).Err(err).Str("attr", launch.AttrSigningID).Msg("read attribute")
		signingID = ""
	}
	profileID, err := cfg.String(launch.AttrProvisioningProfile, "")
	if err != nil {
		t.log.Error().Ctx(ctx).Err(err).Str("attr", launch.AttrProvisioningProfile).Msg("read attribute")
		profileID = ""
	}

	t.identity = t.identityList.Restore(identities, signingID, skip)
	t.profile = t.profileList.Restore(profiles, profileID, false)

	t.log.Debug().Ctx(ctx).
		Stringer("identity", t.identity).
		Stringer("profile", t.profile).
		Int("identities", len(identities)).
		Int("profiles", len(profiles)).
		Msg("restored selection")

	return nil
}

// OnApply writes the current selection. Skipping signing only sets the skip
// flag and clears the identity; the profile attribute is left as it was.
func (t *DeviceTab) OnApply(w launch.Writer) {
	id := t.identityList.Persist(t.identities, t.identity)
	if id.Skip {
		w.SetString(launch.AttrSigningID, "")
		w.SetBool(launch.AttrSkipSigning, true)
		return
	}

	prof := t.profileList.Persist(t.profiles, t.profile)
	w.SetString(launch.AttrSigningID, id.Key)
	w.SetString(launch.AttrProvisioningProfile, prof.Key)
	w.SetBool(launch.AttrSkipSigning, false)
}

// OnSetDefaults clears all three signing attributes.
func (t *DeviceTab) OnSetDefaults(w launch.Writer) {
	w.SetString(launch.AttrSigningID, "")
	w.SetString(launch.AttrProvisioningProfile, "")
	w.SetBool(launch.AttrSkipSigning, false)
}

// IdentityItems returns the identity display list.
func (t *DeviceTab) IdentityItems() []string { return t.identityItems }

// ProfileItems returns the profile display list.
func (t *DeviceTab) ProfileItems() []string { return t.profileItems }

// Identities returns the identity catalog snapshot.
func (t *DeviceTab) Identities() []signing.Identity { return t.identities }

// Profiles returns the profile catalog snapshot.
func (t *DeviceTab) Profiles() []signing.Profile { return t.profiles }

// IdentityIndex returns the selected identity display index.
func (t *DeviceTab) IdentityIndex() int { return t.identityList.Index(t.identity) }

// ProfileIndex returns the selected profile display index.
func (t *DeviceTab) ProfileIndex() int { return t.profileList.Index(t.profile) }

// ProfileEnabled reports whether a profile choice applies. It does not while
// signing is skipped.
func (t *DeviceTab) ProfileEnabled() bool { return t.identity.Kind() != selection.KindSkipSigning }

// IsSkipIndex reports whether the identity display entry at idx is the
// skip-signing entry.
func (t *DeviceTab) IsSkipIndex(idx int) bool {
	s, ok := t.identityList.FromIndex(t.identities, idx)
	return ok && s.Kind() == selection.KindSkipSigning
}

// SelectIdentity selects the identity display entry at idx.
func (t *DeviceTab) SelectIdentity(idx int) error {
	s, ok := t.identityList.FromIndex(t.identities, idx)
	if !ok {
		return fmt.Errorf("identity index %d out of range [0,%d)", idx, len(t.identityItems))
	}
	t.identity = s
	return nil
}

// SelectProfile selects the profile display entry at idx.
func (t *DeviceTab) SelectProfile(idx int) error {
	s, ok := t.profileList.FromIndex(t.profiles, idx)
	if !ok {
		return fmt.Errorf("profile index %d out of range [0,%d)", idx, len(t.profileItems))
	}
	t.profile = s
	return nil
}

// SelectIdentityKey selects the identity matching key (fingerprint or name
// prefix). Returns an error wrapping signing.ErrNotFound if none matches.
func (t *DeviceTab) SelectIdentityKey(key string) error {
	pos, err := signing.LookupIdentity(t.identities, key)
	if err != nil {
		return err
	}
	t.identity = selection.Item(pos)
	return nil
}

// SelectProfileKey selects the profile matching key (UUID or exact name).
// Returns an error wrapping signing.ErrNotFound if none matches.
func (t *DeviceTab) SelectProfileKey(key string) error {
	pos, err := signing.LookupProfile(t.profiles, key)
	if err != nil {
		return err
	}
	t.profile = selection.Item(pos)
	return nil
}

// SkipSigning selects the skip-signing entry.
func (t *DeviceTab) SkipSigning() { t.identity = selection.SkipSigning }

// Choice describes one selected entry.
type Choice struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Key   string `json:"key,omitempty"`
}

// Summary is the current state of the tab.
type Summary struct {
	Identity       Choice `json:"identity"`
	Profile        Choice `json:"profile"`
	SkipSigning    bool   `json:"skip_signing"`
	ProfileEnabled bool   `json:"profile_enabled"`
}

// Summary returns the current selections with labels and keys.
func (t *DeviceTab) Summary() Summary {
	id := t.identityList.Persist(t.identities, t.identity)
	prof := t.profileList.Persist(t.profiles, t.profile)

	idIdx, profIdx := t.IdentityIndex(), t.ProfileIndex()
	return Summary{
		Identity:       Choice{Index: idIdx, Label: t.identityItems[idIdx], Key: id.Key},
		Profile:        Choice{Index: profIdx, Label: t.profileItems[profIdx], Key: prof.Key},
		SkipSigning:    id.Skip,
		ProfileEnabled: t.ProfileEnabled(),
	}
}
