package search

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	want := []string{
		touch(t, filepath.Join(root, "a.pdf")),
		touch(t, filepath.Join(root, "B.PDF")),
		touch(t, filepath.Join(root, "alpha", "c.pdf")),
		touch(t, filepath.Join(root, "beta", "d.pdf")),
	}

	// Not collected: wrong extension, hidden, nested too deep.
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".hidden.pdf"))
	touch(t, filepath.Join(root, ".cache", "e.pdf"))
	touch(t, filepath.Join(root, "alpha", "deeper", "f.pdf"))

	got, err := Discover(root, DefaultExtensions)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	// Root files come before subdirectory files.
	assert.ElementsMatch(t, want[:2], got[:2])
	assert.Equal(t, want[2:], got[2:])
}

func TestDiscover_Symlinks(t *testing.T) {
	outside := t.TempDir()
	target := touch(t, filepath.Join(outside, "x.pdf"))

	root := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked")))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "y.pdf")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone.pdf"), filepath.Join(root, "dangling.pdf")))

	got, err := Discover(root, DefaultExtensions)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "y.pdf"),
		filepath.Join(root, "linked", "x.pdf"),
	}, got)
}

func TestDiscover_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "PDF Resources")

	got, err := Discover(root, DefaultExtensions)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.DirExists(t, root)
}

func TestDiscover_RootIsFile(t *testing.T) {
	root := touch(t, filepath.Join(t.TempDir(), "file.pdf"))

	_, err := Discover(root, DefaultExtensions)
	assert.ErrorIs(t, err, ErrDiscovery)
}

func TestDiscover_UncreatableRoot(t *testing.T) {
	parent := touch(t, filepath.Join(t.TempDir(), "not-a-dir"))

	_, err := Discover(filepath.Join(parent, "child"), DefaultExtensions)
	assert.ErrorIs(t, err, ErrDiscovery)

	_, statErr := os.Stat(filepath.Join(parent, "child"))
	assert.Error(t, statErr)
}
