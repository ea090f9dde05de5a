package selection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/iossign/internal/core/signing"
)

func identityList() List[signing.Identity] {
	return NewList[signing.Identity](
		Sentinel{Kind: KindAuto, Label: "Auto"},
		Sentinel{Kind: KindSkipSigning, Label: "Skip Signing"},
	)
}

func profileList() List[signing.Profile] {
	return NewList[signing.Profile](Sentinel{Kind: KindAuto, Label: "Auto"})
}

func devIdentities() []signing.Identity {
	return []signing.Identity{
		{Name: "Dev A", Fingerprint: "AA11"},
		{Name: "Dev B", Fingerprint: "BB22"},
	}
}

func profile(name, uuid, appID string) signing.Profile {
	return signing.Profile{
		Name:         name,
		UUID:         uuid,
		Entitlements: signing.Entitlements{signing.EntitlementApplicationIdentifier: appID},
	}
}

func TestIdentityScenario(t *testing.T) {
	l := identityList()
	catalog := devIdentities()

	assert.Equal(t, 3, l.RestoreIndex(catalog, "BB22", false))
	assert.Equal(t, Persisted{Key: "AA11"}, l.PersistIndex(catalog, 2))

	display, err := l.Display(catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"Auto", "Skip Signing", "Dev A", "Dev B"}, display)
}

func TestProfileScenario(t *testing.T) {
	l := profileList()
	catalog := []signing.Profile{profile("MyApp", "U1", "TEAM.com.app")}

	display, err := l.Display(catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"Auto", "MyApp (TEAM.com.app)"}, display)
	assert.Equal(t, 1, l.RestoreIndex(catalog, "U1", false))
}

func TestRestore_DeletedProfile(t *testing.T) {
	l := profileList()

	var got int
	require.NotPanics(t, func() {
		got = l.RestoreIndex([]signing.Profile{}, "U1", false)
	})
	assert.Equal(t, 0, got)
}

func TestRestore(t *testing.T) {
	catalogs := map[string][]signing.Identity{
		"empty":    {},
		"nil":      nil,
		"two":      devIdentities(),
		"repeated": {{Name: "A", Fingerprint: "X"}, {Name: "A again", Fingerprint: "X"}},
	}

	l := identityList()
	for name, catalog := range catalogs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Auto, l.Restore(catalog, "", false), "absent key restores to Auto")
			assert.Equal(t, SkipSigning, l.Restore(catalog, "", true), "skip flag wins")
			assert.Equal(t, SkipSigning, l.Restore(catalog, "AA11", true), "skip flag wins over key")
			assert.Equal(t, 1, l.RestoreIndex(catalog, "anything", true))
			assert.Equal(t, 0, l.RestoreIndex(catalog, "nonexistent-key", false))
		})
	}
}

func TestRestore_FirstMatchWins(t *testing.T) {
	l := identityList()
	catalog := []signing.Identity{
		{Name: "A", Fingerprint: "X"},
		{Name: "B", Fingerprint: "X"},
	}

	assert.Equal(t, Item(0), l.Restore(catalog, "X", false))
}

func TestRestore_CaseSensitive(t *testing.T) {
	l := identityList()
	assert.Equal(t, Auto, l.Restore(devIdentities(), "bb22", false))
}

func TestRestore_SkipIgnoredWithoutSkipSentinel(t *testing.T) {
	l := profileList()
	catalog := []signing.Profile{profile("MyApp", "U1", "TEAM.com.app")}

	assert.Equal(t, Auto, l.Restore(catalog, "", true))
	assert.Equal(t, Item(0), l.Restore(catalog, "U1", true))
}

func TestRoundTrip(t *testing.T) {
	identities := []signing.Identity{
		{Name: "Dev A", Fingerprint: "AA11"},
		{Name: "Dev B", Fingerprint: "BB22"},
		{Name: "Dist", Fingerprint: "CC33"},
	}
	il := identityList()
	for _, id := range identities {
		idx := il.RestoreIndex(identities, id.Fingerprint, false)
		assert.Equal(t, Persisted{Key: id.Fingerprint}, il.PersistIndex(identities, idx), id.Name)
	}

	profiles := []signing.Profile{
		profile("One", "U1", "T.one"),
		profile("Two", "U2", "T.two"),
	}
	pl := profileList()
	for _, p := range profiles {
		idx := pl.RestoreIndex(profiles, p.UUID, false)
		assert.Equal(t, Persisted{Key: p.UUID}, pl.PersistIndex(profiles, idx), p.Name)
	}
}

func TestPersist_Sentinels(t *testing.T) {
	il := identityList()
	catalog := devIdentities()

	assert.Equal(t, Persisted{}, il.PersistIndex(catalog, 0))
	assert.Equal(t, Persisted{Skip: true}, il.PersistIndex(catalog, 1))
	assert.Equal(t, Persisted{Key: "BB22"}, il.PersistIndex(catalog, 3))

	pl := profileList()
	assert.Equal(t, Persisted{}, pl.PersistIndex(nil, 0))
}

func TestPersist_OutOfRangePanics(t *testing.T) {
	il := identityList()
	catalog := devIdentities()

	assert.Panics(t, func() { il.PersistIndex(catalog, 4) })
	assert.Panics(t, func() { il.PersistIndex(catalog, -1) })
	assert.Panics(t, func() { il.Persist(catalog, Item(2)) })

	pl := profileList()
	assert.Panics(t, func() { pl.Persist(nil, SkipSigning) })
	assert.Panics(t, func() { pl.PersistIndex(nil, 1) })
}

func TestDisplay_Length(t *testing.T) {
	il := identityList()
	for n := 0; n < 5; n++ {
		catalog := make([]signing.Identity, n)
		for i := range catalog {
			catalog[i] = signing.Identity{Name: fmt.Sprintf("id %d", i), Fingerprint: fmt.Sprintf("F%d", i)}
		}

		display, err := il.Display(catalog)
		require.NoError(t, err)
		assert.Len(t, display, 2+n)
		assert.Equal(t, 2+n, il.Len(catalog))
	}
}

func TestDisplay_KeepsCatalogOrderAndDuplicates(t *testing.T) {
	l := identityList()
	catalog := []signing.Identity{
		{Name: "Zed", Fingerprint: "Z"},
		{Name: "Alpha", Fingerprint: "A"},
		{Name: "Zed", Fingerprint: "Z"},
	}

	display, err := l.Display(catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"Auto", "Skip Signing", "Zed", "Alpha", "Zed"}, display)
}

func TestDisplay_UnresolvableApplicationIdentifier(t *testing.T) {
	l := profileList()
	catalog := []signing.Profile{
		profile("Good", "U1", "T.good"),
		{Name: "Broken", UUID: "U2"},
	}

	display, err := l.Display(catalog)
	require.Error(t, err)
	assert.Nil(t, display)
	assert.True(t, errors.Is(err, signing.ErrNoApplicationIdentifier))
	assert.Contains(t, err.Error(), "U2")
}

func TestIndexAndFromIndex(t *testing.T) {
	il := identityList()
	catalog := devIdentities()

	for idx := 0; idx < il.Len(catalog); idx++ {
		s, ok := il.FromIndex(catalog, idx)
		require.True(t, ok)
		assert.Equal(t, idx, il.Index(s))
	}

	_, ok := il.FromIndex(catalog, il.Len(catalog))
	assert.False(t, ok)
	_, ok = il.FromIndex(catalog, -1)
	assert.False(t, ok)

	s, _ := il.FromIndex(catalog, 1)
	assert.Equal(t, KindSkipSigning, s.Kind())

	pl := profileList()
	assert.Panics(t, func() { pl.Index(SkipSigning) })
}

func TestSelection_Position(t *testing.T) {
	pos, ok := Item(3).Position()
	assert.True(t, ok)
	assert.Equal(t, 3, pos)

	_, ok = Auto.Position()
	assert.False(t, ok)

	assert.Equal(t, "item[3]", Item(3).String())
	assert.Equal(t, "skip-signing", SkipSigning.String())
	assert.Panics(t, func() { Item(-1) })
}

func TestNewList_InvalidSentinels(t *testing.T) {
	assert.Panics(t, func() { NewList[signing.Identity]() })
	assert.Panics(t, func() {
		NewList[signing.Identity](Sentinel{Kind: KindSkipSigning, Label: "Skip"})
	})
	assert.Panics(t, func() {
		NewList[signing.Identity](
			Sentinel{Kind: KindAuto, Label: "Auto"},
			Sentinel{Kind: KindAuto, Label: "Auto again"},
		)
	})
	assert.Panics(t, func() {
		NewList[signing.Identity](
			Sentinel{Kind: KindAuto, Label: "Auto"},
			Sentinel{Kind: KindItem, Label: "Item"},
		)
	})
}
