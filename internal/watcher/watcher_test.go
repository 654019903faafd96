package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case p := <-w.Updates:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	return ""
}

func TestWatcherReportsNestedWrites(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	w, err := StartWatcher(root)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(nested, "page.hbs.html"), []byte("x"), 0644))
	require.NotEmpty(t, waitFor(t, w))
}

func TestWatcherMissingFolder(t *testing.T) {
	_, err := StartWatcher(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWatcherIgnoresBuildFolder(t *testing.T) {
	root := t.TempDir()
	build := filepath.Join(root, "_build")
	require.NoError(t, os.MkdirAll(filepath.Join(build, "css"), 0755))

	w, err := StartWatcher(root, build)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(build, "index.html"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(build, "css", "site.css"), []byte("x"), 0644))
	select {
	case p := <-w.Updates:
		t.Fatalf("change reported inside the build folder: %s", p)
	case <-time.After(300 * time.Millisecond):
	}

	src := filepath.Join(root, "page.hbs.html")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	require.Equal(t, src, waitFor(t, w))
}
