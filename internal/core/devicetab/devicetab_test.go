package devicetab

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/iossign/internal/core/launch"
	"github.com/colonyops/iossign/internal/core/signing"
)

type fakeProvider struct {
	identities []signing.Identity
	profiles   []signing.Profile
	err        error
}

func (f *fakeProvider) ListSigningIdentities(context.Context) ([]signing.Identity, error) {
	return f.identities, f.err
}

func (f *fakeProvider) ListProvisioningProfiles(context.Context) ([]signing.Profile, error) {
	return f.profiles, f.err
}

// brokenRecord fails every read.
type brokenRecord struct{}

func (brokenRecord) String(name, def string) (string, error) {
	return def, errors.New("store unavailable")
}

func (brokenRecord) Bool(name string, def bool) (bool, error) {
	return def, errors.New("store unavailable")
}

func newProvider() *fakeProvider {
	return &fakeProvider{
		identities: []signing.Identity{
			{Name: "Dev A", Fingerprint: "AA11"},
			{Name: "Dev B", Fingerprint: "BB22"},
		},
		profiles: []signing.Profile{
			{
				Name:         "MyApp",
				UUID:         "U1",
				Entitlements: signing.Entitlements{signing.EntitlementApplicationIdentifier: "TEAM.com.app"},
			},
		},
	}
}

func newTab(p signing.Provider) *DeviceTab {
	return New(p, DefaultLabels(), zerolog.Nop())
}

func record(attrs map[string]any) launch.Config {
	cfg := launch.New("device")
	for k, v := range attrs {
		cfg.Attributes[k] = v
	}
	return cfg
}

func TestOnCreate_Defaults(t *testing.T) {
	tab := newTab(newProvider())
	tab.OnCreate()

	assert.Equal(t, []string{"Auto (starts with 'iPhone Developer')", "Skip Signing"}, tab.IdentityItems())
	assert.Equal(t, []string{"Auto"}, tab.ProfileItems())
	assert.Equal(t, 0, tab.IdentityIndex())
	assert.Equal(t, 0, tab.ProfileIndex())
	assert.True(t, tab.ProfileEnabled())
}

func TestOnInitialize_RestoresSelection(t *testing.T) {
	tab := newTab(newProvider())

	err := tab.OnInitialize(context.Background(), record(map[string]any{
		launch.AttrSigningID:           "BB22",
		launch.AttrProvisioningProfile: "U1",
	}))
	require.NoError(t, err)

	assert.Len(t, tab.IdentityItems(), 4)
	assert.Equal(t, []string{"Auto", "MyApp (TEAM.com.app)"}, tab.ProfileItems())
	assert.Equal(t, 3, tab.IdentityIndex())
	assert.Equal(t, 1, tab.ProfileIndex())
}

func TestOnInitialize_SkipSigning(t *testing.T) {
	tab := newTab(newProvider())

	err := tab.OnInitialize(context.Background(), record(map[string]any{
		launch.AttrSigningID:   "AA11",
		launch.AttrSkipSigning: true,
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, tab.IdentityIndex())
	assert.False(t, tab.ProfileEnabled())
}

func TestOnInitialize_StaleReferencesFallBackToAuto(t *testing.T) {
	p := newProvider()
	p.profiles = nil
	tab := newTab(p)

	err := tab.OnInitialize(context.Background(), record(map[string]any{
		launch.AttrSigningID:           "REVOKED",
		launch.AttrProvisioningProfile: "U1",
	}))
	require.NoError(t, err)

	assert.Equal(t, 0, tab.IdentityIndex())
	assert.Equal(t, 0, tab.ProfileIndex())
}

func TestOnInitialize_ReadFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	tab := New(newProvider(), DefaultLabels(), zerolog.New(&buf))

	err := tab.OnInitialize(context.Background(), brokenRecord{})
	require.NoError(t, err)

	assert.Equal(t, 0, tab.IdentityIndex())
	assert.Equal(t, 0, tab.ProfileIndex())
	assert.Contains(t, buf.String(), "store unavailable")
	assert.Contains(t, buf.String(), launch.AttrSkipSigning)
	assert.Contains(t, buf.String(), launch.AttrProvisioningProfile)
}

func TestOnInitialize_WrongTypeAttribute(t *testing.T) {
	var buf bytes.Buffer
	tab := New(newProvider(), DefaultLabels(), zerolog.New(&buf))

	err := tab.OnInitialize(context.Background(), record(map[string]any{
		launch.AttrSigningID:   "BB22",
		launch.AttrSkipSigning: "yes",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, tab.IdentityIndex(), "unreadable skip flag is treated as false")
	assert.Contains(t, buf.String(), "wrong type")
}

func TestOnInitialize_ProviderError(t *testing.T) {
	p := newProvider()
	p.err = errors.New("boom")

	err := newTab(p).OnInitialize(context.Background(), launch.New("device"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list signing identities")
}

func TestOnInitialize_UnlabelledProfileFails(t *testing.T) {
	p := newProvider()
	p.profiles = append(p.profiles, signing.Profile{Name: "Broken", UUID: "U2"})

	err := newTab(p).OnInitialize(context.Background(), launch.New("device"))
	require.ErrorIs(t, err, signing.ErrNoApplicationIdentifier)
	assert.Contains(t, err.Error(), "U2")
}

func TestOnApply_Concrete(t *testing.T) {
	tab := newTab(newProvider())
	require.NoError(t, tab.OnInitialize(context.Background(), launch.New("device")))

	require.NoError(t, tab.SelectIdentity(2))
	require.NoError(t, tab.SelectProfile(1))

	wc := launch.New("device").WorkingCopy()
	tab.OnApply(wc)

	assert.Equal(t, "AA11", wc.Attributes[launch.AttrSigningID])
	assert.Equal(t, "U1", wc.Attributes[launch.AttrProvisioningProfile])
	assert.Equal(t, false, wc.Attributes[launch.AttrSkipSigning])
}

func TestOnApply_AutoClearsKeys(t *testing.T) {
	tab := newTab(newProvider())
	stored := record(map[string]any{
		launch.AttrSigningID:           "AA11",
		launch.AttrProvisioningProfile: "U1",
	})
	require.NoError(t, tab.OnInitialize(context.Background(), stored))

	require.NoError(t, tab.SelectIdentity(0))
	require.NoError(t, tab.SelectProfile(0))

	wc := stored.WorkingCopy()
	tab.OnApply(wc)

	assert.NotContains(t, wc.Attributes, launch.AttrSigningID)
	assert.NotContains(t, wc.Attributes, launch.AttrProvisioningProfile)
	assert.Equal(t, false, wc.Attributes[launch.AttrSkipSigning])
}

func TestOnApply_SkipLeavesProfile(t *testing.T) {
	tab := newTab(newProvider())
	stored := record(map[string]any{
		launch.AttrSigningID:           "AA11",
		launch.AttrProvisioningProfile: "U1",
	})
	require.NoError(t, tab.OnInitialize(context.Background(), stored))

	tab.SkipSigning()
	wc := stored.WorkingCopy()
	tab.OnApply(wc)

	assert.Equal(t, true, wc.Attributes[launch.AttrSkipSigning])
	assert.NotContains(t, wc.Attributes, launch.AttrSigningID)
	assert.Equal(t, "U1", wc.Attributes[launch.AttrProvisioningProfile])
}

func TestApplyThenInitialize_RoundTrip(t *testing.T) {
	p := newProvider()
	tab := newTab(p)
	require.NoError(t, tab.OnInitialize(context.Background(), launch.New("device")))
	require.NoError(t, tab.SelectIdentityKey("BB22"))
	require.NoError(t, tab.SelectProfileKey("U1"))

	wc := launch.New("device").WorkingCopy()
	tab.OnApply(wc)

	again := newTab(p)
	require.NoError(t, again.OnInitialize(context.Background(), wc.Config))
	assert.Equal(t, tab.Summary(), again.Summary())
}

func TestOnSetDefaults_ClearsAll(t *testing.T) {
	tab := newTab(newProvider())
	stored := record(map[string]any{
		launch.AttrSigningID:           "AA11",
		launch.AttrProvisioningProfile: "U1",
		launch.AttrSkipSigning:         true,
	})

	wc := stored.WorkingCopy()
	tab.OnSetDefaults(wc)

	assert.NotContains(t, wc.Attributes, launch.AttrSigningID)
	assert.NotContains(t, wc.Attributes, launch.AttrProvisioningProfile)
	assert.Equal(t, false, wc.Attributes[launch.AttrSkipSigning])
}

func TestSelect_OutOfRange(t *testing.T) {
	tab := newTab(newProvider())
	require.NoError(t, tab.OnInitialize(context.Background(), launch.New("device")))

	require.Error(t, tab.SelectIdentity(4))
	require.Error(t, tab.SelectIdentity(-1))
	require.Error(t, tab.SelectProfile(2))
	assert.Equal(t, 0, tab.IdentityIndex(), "failed select keeps previous selection")
}

func TestSelectKey_NotFound(t *testing.T) {
	tab := newTab(newProvider())
	require.NoError(t, tab.OnInitialize(context.Background(), launch.New("device")))

	require.ErrorIs(t, tab.SelectIdentityKey("ZZ99"), signing.ErrNotFound)
	require.ErrorIs(t, tab.SelectProfileKey("U9"), signing.ErrNotFound)
}

func TestSummary(t *testing.T) {
	tab := newTab(newProvider())
	require.NoError(t, tab.OnInitialize(context.Background(), record(map[string]any{
		launch.AttrSigningID:           "BB22",
		launch.AttrProvisioningProfile: "U1",
	})))

	s := tab.Summary()
	assert.Equal(t, Choice{Index: 3, Label: "Dev B", Key: "BB22"}, s.Identity)
	assert.Equal(t, Choice{Index: 1, Label: "MyApp (TEAM.com.app)", Key: "U1"}, s.Profile)
	assert.False(t, s.SkipSigning)
	assert.True(t, s.ProfileEnabled)

	tab.SkipSigning()
	s = tab.Summary()
	assert.True(t, s.SkipSigning)
	assert.False(t, s.ProfileEnabled)
	assert.Equal(t, "Skip Signing", s.Identity.Label)
}

func TestIsSkipIndex(t *testing.T) {
	tab := newTab(newProvider())
	require.NoError(t, tab.OnInitialize(context.Background(), launch.New("device")))

	assert.False(t, tab.IsSkipIndex(0))
	assert.True(t, tab.IsSkipIndex(1))
	assert.False(t, tab.IsSkipIndex(2))
	assert.False(t, tab.IsSkipIndex(9))
}
