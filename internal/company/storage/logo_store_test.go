package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLogoStore(dir)
	require.NoError(t, err)

	path, err := store.Save("company-logo.PNG", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/logo-"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	stored := filepath.Join(dir, strings.TrimPrefix(path, "/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestLogoStore_Save_UniqueNames(t *testing.T) {
	store, err := NewLogoStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("logo.png", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save("logo.png", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLogoStore_Save_StripsDirectoryFromName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLogoStore(dir)
	require.NoError(t, err)

	path, err := store.Save("../../etc/passwd.png", strings.NewReader("x"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(path, ".png"))
}

func TestNewLogoStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLogoStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
