package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedImages(t *testing.T, baseDir, meal string, names ...string) {
	t.Helper()
	dir := filepath.Join(baseDir, meal)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
	}
}

func TestRandomImage(t *testing.T) {
	baseDir := t.TempDir()
	seedImages(t, baseDir, "lunch", "a.jpg", "b.png", "notes.txt")
	lib := NewMenuLibrary(baseDir, "https://example.test/menus/", nil, zap.NewNop())

	url, err := lib.RandomImage("lunch")
	require.NoError(t, err)
	assert.Contains(t, []string{
		"https://example.test/menus/lunch/a.jpg",
		"https://example.test/menus/lunch/b.png",
	}, url, "non-image files must never be served")
}

func TestRandomImage_MissingFolder(t *testing.T) {
	lib := NewMenuLibrary(t.TempDir(), "https://example.test/menus", nil, zap.NewNop())

	_, err := lib.RandomImage("dinner")
	assert.ErrorIs(t, err, ErrNoFolder)
}

func TestRandomImage_EmptyFolder(t *testing.T) {
	baseDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "drink"), 0o755))
	lib := NewMenuLibrary(baseDir, "https://example.test/menus", nil, zap.NewNop())

	_, err := lib.RandomImage("drink")
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestFindByKeyword_Alias(t *testing.T) {
	baseDir := t.TempDir()
	seedImages(t, baseDir, "lunch", "migao.jpg")
	lib := NewMenuLibrary(baseDir, "https://example.test/menus",
		map[string]string{"米糕": "migao.jpg"}, zap.NewNop())

	url, ok := lib.FindByKeyword("米糕")
	require.True(t, ok)
	assert.Equal(t, "https://example.test/menus/lunch/migao.jpg", url)

	// Alias lookup is case-insensitive on the keyword side.
	lib = NewMenuLibrary(baseDir, "https://example.test/menus",
		map[string]string{"MiGao": "migao.jpg"}, zap.NewNop())
	_, ok = lib.FindByKeyword("migao")
	assert.True(t, ok)
}

func TestFindByKeyword_FuzzyFilenameScan(t *testing.T) {
	baseDir := t.TempDir()
	seedImages(t, baseDir, "dinner", "beef-noodle-house.jpg")
	lib := NewMenuLibrary(baseDir, "https://example.test/menus", nil, zap.NewNop())

	url, ok := lib.FindByKeyword("noodle")
	require.True(t, ok)
	assert.Equal(t, "https://example.test/menus/dinner/beef-noodle-house.jpg", url)

	_, ok = lib.FindByKeyword("pizza")
	assert.False(t, ok)
	_, ok = lib.FindByKeyword("   ")
	assert.False(t, ok)
}

func TestFindByKeyword_AliasPointingAtMissingFileFallsBack(t *testing.T) {
	baseDir := t.TempDir()
	seedImages(t, baseDir, "lunch", "migao-new.jpg")
	lib := NewMenuLibrary(baseDir, "https://example.test/menus",
		map[string]string{"migao": "gone.jpg"}, zap.NewNop())

	url, ok := lib.FindByKeyword("migao")
	require.True(t, ok)
	assert.Equal(t, "https://example.test/menus/lunch/migao-new.jpg", url)
}

func TestImageURL_EscapesNonASCII(t *testing.T) {
	lib := NewMenuLibrary(t.TempDir(), "https://example.test/menus", nil, zap.NewNop())

	url := lib.ImageURL("lunch", "米糕.jpg")
	assert.Equal(t, "https://example.test/menus/lunch/%E7%B1%B3%E7%B3%95.jpg", url)
}

func TestAliases(t *testing.T) {
	lib := NewMenuLibrary(t.TempDir(), "https://example.test/menus",
		map[string]string{"c": "c.jpg", "a": "a.jpg", "b": "b.jpg"}, zap.NewNop())

	assert.Equal(t, []string{"a", "b", "c"}, lib.Aliases(0))
	assert.Equal(t, []string{"a", "b"}, lib.Aliases(2))
}
