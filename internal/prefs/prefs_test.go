package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/termfolio/internal/errors"
)

func TestMemory(t *testing.T) {
	var notified [][2]string
	store := NewMemory(map[string]string{ThemeKey: "dark"}, func(key, value string) {
		notified = append(notified, [2]string{key, value})
	})

	value, ok := store.Get(ThemeKey)
	require.True(t, ok)
	assert.Equal(t, "dark", value)

	_, ok = store.Get("missing")
	assert.False(t, ok)

	require.NoError(t, store.Set(ThemeKey, "light"))
	value, _ = store.Get(ThemeKey)
	assert.Equal(t, "light", value)
	assert.Equal(t, [][2]string{{ThemeKey, "light"}}, notified)
	assert.Equal(t, map[string]string{ThemeKey: "light"}, store.Snapshot())
}

func TestMemoryDoesNotAliasInitialMap(t *testing.T) {
	initial := map[string]string{ThemeKey: "dark"}
	store := NewMemory(initial, nil)
	require.NoError(t, store.Set(ThemeKey, "light"))
	assert.Equal(t, "dark", initial[ThemeKey])
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	store, err := OpenFile(path)
	require.NoError(t, err)
	_, ok := store.Get(ThemeKey)
	assert.False(t, ok)
	assert.NoFileExists(t, path)

	require.NoError(t, store.Set(ThemeKey, "light"))
	assert.FileExists(t, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	value, ok := reopened.Get(ThemeKey)
	require.True(t, ok)
	assert.Equal(t, "light", value)
	assert.Equal(t, path, reopened.Path())
}

func TestFileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0o600))

	_, err := OpenFile(path)
	require.Error(t, err)
	assert.True(t, errors.HasErrorCode(err, "ERR_PARSE_PREFERENCES"))
}

func TestFileEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	store, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ThemeKey, "dark"))
}
