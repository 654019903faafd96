package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/grips/internal/errs"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0644))
	}
}

func collect(t *testing.T, w *Walker) []Entry {
	t.Helper()
	var out []Entry
	for w.Next() {
		out = append(out, w.Entry())
	}
	require.NoError(t, w.Err())
	return out
}

func relPaths(t *testing.T, root string, entries []Entry) []string {
	t.Helper()
	var out []string
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestWalkCompleteness(t *testing.T) {
	for _, order := range []Order{Stack, Queue} {
		root := t.TempDir()
		writeTree(t, root, "index.hbs.html", "css/site.css", "a/b/c/deep.txt", "a/x.png")
		require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0755))

		entries := collect(t, New(root, WithOrder(order)))

		assert.Equal(t, []string{
			"a", "a/b", "a/b/c", "a/b/c/deep.txt", "a/x.png",
			"css", "css/site.css", "empty", "index.hbs.html",
		}, relPaths(t, root, entries))
	}
}

func TestWalkKinds(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "dir/file.txt")

	for _, e := range collect(t, New(root)) {
		switch e.Name {
		case "dir":
			assert.Equal(t, KindDir, e.Kind)
		case "file.txt":
			assert.Equal(t, KindFile, e.Kind)
		default:
			t.Fatalf("unexpected entry %s", e.Path)
		}
	}
}

func TestDirectoryBeforeChildren(t *testing.T) {
	for _, order := range []Order{Stack, Queue} {
		root := t.TempDir()
		writeTree(t, root, "a/b/c/1.txt", "a/2.txt", "d/3.txt", "d/e/4.txt")

		seen := map[string]bool{root: true}
		for _, e := range collect(t, New(root, WithOrder(order))) {
			assert.True(t, seen[filepath.Dir(e.Path)], "parent of %s not yet yielded", e.Path)
			seen[e.Path] = true
		}
	}
}

func TestPendingWorkList(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/1.txt", "b/2.txt")

	w := New(root)
	assert.Equal(t, []string{root}, w.Pending())

	require.True(t, w.Next())
	// the root has been read; the first yielded directory is now pending
	first := w.Entry()
	assert.Equal(t, KindDir, first.Kind)
	assert.Equal(t, []string{first.Path}, w.Pending())

	collect(t, w)
	assert.Empty(t, w.Pending())
}

func fileOrder(t *testing.T, w *Walker) []string {
	t.Helper()
	var out []string
	for _, e := range collect(t, w) {
		if e.Kind == KindFile {
			out = append(out, e.Name)
		}
	}
	return out
}

func TestStackAndQueueOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/aa/1.txt", "a/3.txt", "b/2.txt")

	// os.ReadDir sorts names, which makes the pop discipline observable.
	assert.Equal(t, []string{"2.txt", "3.txt", "1.txt"}, fileOrder(t, New(root, WithOrder(Stack))))
	assert.Equal(t, []string{"3.txt", "2.txt", "1.txt"}, fileOrder(t, New(root, WithOrder(Queue))))
}

func TestMissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"))
	assert.False(t, w.Next())
	require.Error(t, w.Err())
	assert.True(t, errs.Is(w.Err(), errs.KindTraversal))
	assert.False(t, w.Next())
}

func TestSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	t.Run("file link is a file", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "real.css")
		require.NoError(t, os.Symlink(filepath.Join(root, "real.css"), filepath.Join(root, "link.css")))

		for _, e := range collect(t, New(root)) {
			assert.Equal(t, KindFile, e.Kind, e.Name)
		}
	})

	t.Run("dangling link fails", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken.css")))

		w := New(root)
		for w.Next() {
		}
		assert.True(t, errs.Is(w.Err(), errs.KindTraversal))
	})

	t.Run("directory link fails", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "real/a.css")
		require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

		w := New(root)
		for w.Next() {
		}
		assert.True(t, errs.Is(w.Err(), errs.KindTraversal))
	})
}

func TestExcludedFolderIsNotEntered(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "index.hbs.html", "_build/index.html", "_build/css/site.css", "css/site.css")

	entries := collect(t, New(root, WithExclude(filepath.Join(root, "_build"))))

	assert.Equal(t, []string{"css", "css/site.css", "index.hbs.html"}, relPaths(t, root, entries))
}

func TestUnder(t *testing.T) {
	root := filepath.Join("site", "src")

	nested, ok, err := Under(root, filepath.Join("site", "src", "public", ".."))
	require.NoError(t, err)
	assert.False(t, ok, "the root itself is not under the root")
	assert.Empty(t, nested)

	nested, ok, err = Under(root, filepath.Join("site", "src", "_build"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "_build"), nested)

	_, ok, err = Under(root, filepath.Join("site", "build"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Under(root, filepath.Join("site", "src-build"))
	require.NoError(t, err)
	assert.False(t, ok)
}
