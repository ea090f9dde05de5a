package yamlfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/iossign/internal/core/launch"
)

func newStore(t *testing.T) *LaunchStore {
	t.Helper()
	return NewLaunchStore(filepath.Join(t.TempDir(), "nested", "launch.yaml"))
}

func TestLaunchStore_MissingFile(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.Get(ctx, "device")
	require.ErrorIs(t, err, launch.ErrNotFound)
}

func TestLaunchStore_SaveAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cfg := launch.New("device")
	cfg.Attributes[launch.AttrSigningID] = "AA11"
	cfg.Attributes[launch.AttrSkipSigning] = false
	require.NoError(t, s.Save(ctx, cfg))

	got, err := s.Get(ctx, "device")
	require.NoError(t, err)

	id, err := got.String(launch.AttrSigningID, "")
	require.NoError(t, err)
	assert.Equal(t, "AA11", id)

	skip, err := got.Bool(launch.AttrSkipSigning, true)
	require.NoError(t, err)
	assert.False(t, skip)
}

func TestLaunchStore_SaveReplacesByName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := launch.New("a")
	first.Attributes[launch.AttrSigningID] = "AA11"
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, launch.New("b")))

	updated := launch.New("a")
	updated.Attributes[launch.AttrSigningID] = "BB22"
	require.NoError(t, s.Save(ctx, updated))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "BB22", list[0].Attributes[launch.AttrSigningID])
	assert.Equal(t, "b", list[1].Name)
}

func TestLaunchStore_SaveRejectsEmptyName(t *testing.T) {
	s := newStore(t)
	require.Error(t, s.Save(context.Background(), launch.New("  ")))
}

func TestLaunchStore_Delete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, launch.New("a")))
	require.NoError(t, s.Save(ctx, launch.New("b")))

	require.NoError(t, s.Delete(ctx, "a"))
	require.ErrorIs(t, s.Delete(ctx, "a"), launch.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name)
}

func TestLaunchStore_HandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.yaml")
	content := `configurations:
  - name: device
    attributes:
      ios.device.signing_id: AA11
      ios.device.skip_signing: "yes"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewLaunchStore(path).Get(context.Background(), "device")
	require.NoError(t, err)

	_, err = got.Bool(launch.AttrSkipSigning, false)
	require.ErrorIs(t, err, launch.ErrWrongType)
}

func TestLaunchStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("configurations: [\n"), 0o644))

	_, err := NewLaunchStore(path).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse launch file")
}
