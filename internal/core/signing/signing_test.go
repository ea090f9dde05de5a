package signing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Label(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    string
		wantErr error
	}{
		{
			name: "name with application identifier",
			profile: Profile{
				Name:         "MyApp",
				UUID:         "U1",
				Entitlements: Entitlements{EntitlementApplicationIdentifier: "TEAM.com.app"},
			},
			want: "MyApp (TEAM.com.app)",
		},
		{
			name:    "missing entitlements",
			profile: Profile{Name: "MyApp", UUID: "U1"},
			wantErr: ErrNoApplicationIdentifier,
		},
		{
			name: "non-string identifier",
			profile: Profile{
				Name:         "MyApp",
				UUID:         "U1",
				Entitlements: Entitlements{EntitlementApplicationIdentifier: 42},
			},
			wantErr: ErrNoApplicationIdentifier,
		},
		{
			name: "empty identifier",
			profile: Profile{
				Name:         "MyApp",
				UUID:         "U1",
				Entitlements: Entitlements{EntitlementApplicationIdentifier: ""},
			},
			wantErr: ErrNoApplicationIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.profile.Label()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.profile.UUID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfile_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, Profile{}.Expired(now), "zero expiration never expires")
	assert.False(t, Profile{ExpirationDate: now.Add(time.Hour)}.Expired(now))
	assert.True(t, Profile{ExpirationDate: now}.Expired(now))
	assert.True(t, Profile{ExpirationDate: now.Add(-time.Hour)}.Expired(now))
}

func TestLookupIdentity(t *testing.T) {
	items := []Identity{
		{Name: "iPhone Developer: Dev A", Fingerprint: "AA11"},
		{Name: "iPhone Distribution: Dev B", Fingerprint: "BB22"},
	}

	pos, err := LookupIdentity(items, "BB22")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = LookupIdentity(items, "iPhone Developer")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	_, err = LookupIdentity(items, "bb22")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = LookupIdentity(items, "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = LookupIdentity(nil, "AA11")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLookupProfile(t *testing.T) {
	items := []Profile{
		{Name: "Dev", UUID: "U1"},
		{Name: "Ad Hoc", UUID: "U2"},
	}

	pos, err := LookupProfile(items, "U2")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = LookupProfile(items, "Dev")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	_, err = LookupProfile(items, "U3")
	require.ErrorIs(t, err, ErrNotFound)
}
