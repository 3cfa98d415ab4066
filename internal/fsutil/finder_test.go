package fsutil

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"recipes/a.hcl":                   {},
		"recipes/sub/b.hcl":               {},
		"recipes/sub/notes.txt":           {},
		"recipes/a.resources/nested.hcl":  {},
		"recipes/sub/b.resources/x/y.hcl": {},
		"other/c.hcl":                     {},
	}

	files, err := FindFilesByExtension(fsys, "recipes", ".hcl", ".resources")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"recipes/a.hcl", "recipes/sub/b.hcl"}, files)

	files, err = FindFilesByExtension(fsys, "recipes", ".hcl")
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestFindFilesByExtensionMissingRoot(t *testing.T) {
	files, err := FindFilesByExtension(fstest.MapFS{}, "recipes", ".hcl")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFilesByExtensionPanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = FindFilesByExtension(fstest.MapFS{}, ".", "")
	})
}
