package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"b.hcl", "a.hcl", "nested/c.hcl", "skip.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#"), 0o600))
	}
	single := filepath.Join(dir, "a.hcl")

	// --- Act ---
	files, err := CollectFiles([]string{dir, single, filepath.Join(dir, "missing")}, ".hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl"),
	}, files)
}

func TestReadRelative(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.html"), []byte("<div/>"), 0o600))

	content, path, err := ReadRelative(filepath.Join(dir, "components.hcl"), "card.html")
	require.NoError(t, err)
	assert.Equal(t, "<div/>", content)
	assert.Equal(t, filepath.Join(dir, "card.html"), path)

	_, _, err = ReadRelative(filepath.Join(dir, "components.hcl"), "missing.html")
	require.Error(t, err)
}
