package convert_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/pdf-image-converter/internal/convert"
)

func TestDiscoverFiles_SortedAndFiltered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.txt", "d.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	// Subdirectories are never descended into, even with a matching name.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.png"), 0o750))

	paths, err := convert.DiscoverFilesForTest(dir, convert.ImageExtensionsForTest)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.PNG"),
		filepath.Join(dir, "d.webp"),
	}, paths)
}

func TestDiscoverFiles_DotfileIsNotAMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// A dotfile named exactly like an extension has no stem to name an
	// output after, so it is not an input.
	for _, name := range []string{".png", ".pdf", "a.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	imagePaths, err := convert.DiscoverFilesForTest(dir, convert.ImageExtensionsForTest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.png")}, imagePaths)

	pdfPaths, err := convert.DiscoverFilesForTest(dir, convert.PDFExtensionsForTest)
	require.NoError(t, err)
	assert.Empty(t, pdfPaths)
}

func TestDiscoverFiles_PDFMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"doc.pdf", "DOC2.PDF", "image.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	paths, err := convert.DiscoverFilesForTest(dir, convert.PDFExtensionsForTest)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestDiscoverFiles_EmptyDirIsNotAnError(t *testing.T) {
	t.Parallel()

	paths, err := convert.DiscoverFilesForTest(t.TempDir(), convert.PDFExtensionsForTest)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscoverFiles_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := convert.DiscoverFilesForTest(
		filepath.Join(t.TempDir(), "does-not-exist"),
		convert.PDFExtensionsForTest,
	)
	require.Error(t, err)
}
