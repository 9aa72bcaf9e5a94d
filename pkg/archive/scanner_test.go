package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("notes.txt"))
	assert.True(t, IsSupported("page.html"))
	assert.True(t, IsSupported("readme.md"))
	assert.True(t, IsSupported("UPPER.MD"))
	assert.False(t, IsSupported("image.png"))
	assert.False(t, IsSupported("archive"))
}

func TestScanDirFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "zeta.txt", "z")
	writeDoc(t, dir, "alpha.md", "a")
	writeDoc(t, dir, "skip.png", "binary")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	paths, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "alpha.md"), paths[0])
	assert.Equal(t, filepath.Join(dir, "zeta.txt"), paths[1])
}

func TestScanDirMissing(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "one.txt", "first document")
	writeDoc(t, dir, "two.md", "second document")

	docs, err := LoadDocuments(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "one.txt", docs[0].Filename)
	assert.Equal(t, "first document", docs[0].Content)
	assert.Equal(t, "two.md", docs[1].Filename)
}

func TestLoadDocumentsEmptyDir(t *testing.T) {
	docs, err := LoadDocuments(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
