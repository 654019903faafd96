// Package walker enumerates a directory tree without recursion. Pending
// directories live in an explicit work-list, so deep trees do not grow the
// call stack and the traversal state can be inspected between steps.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/toastate/grips/internal/errs"
)

type Kind int

const (
	KindFile Kind = iota
	KindDir
	// KindOther covers sockets, devices and named pipes.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	}
	return "other"
}

// Order is the discipline of the pending directory work-list.
type Order int

const (
	// Stack pops the most recently discovered directory first (depth first).
	Stack Order = iota
	// Queue pops the oldest discovered directory first (breadth first).
	Queue
)

type Entry struct {
	Path string
	Name string
	Kind Kind
}

type Option func(*Walker)

func WithOrder(o Order) Option {
	return func(w *Walker) {
		w.order = o
	}
}

// WithExclude leaves the given directories and everything below them out of
// the walk. Paths must be spelled the way the walker builds them, see Under.
func WithExclude(dirs ...string) Option {
	return func(w *Walker) {
		if w.exclude == nil {
			w.exclude = map[string]struct{}{}
		}
		for _, d := range dirs {
			w.exclude[filepath.Clean(d)] = struct{}{}
		}
	}
}

// Under reports whether path lies strictly below root once both are made
// absolute, and returns it joined onto root, which is how a walker started
// at root spells it.
func Under(root, path string) (string, bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, nil
	}
	return filepath.Join(root, rel), true, nil
}

// Walker yields every entry below root exactly once. A directory is always
// yielded before any of its children. Sibling order is not part of the
// contract.
//
//	w := walker.New(root)
//	for w.Next() {
//		e := w.Entry()
//	}
//	if err := w.Err(); err != nil { ... }
type Walker struct {
	root    string
	order   Order
	exclude map[string]struct{}

	pending  []string
	batch    []fs.DirEntry
	batchDir string

	entry Entry
	err   error
}

func New(root string, opts ...Option) *Walker {
	w := &Walker{
		root:    root,
		pending: []string{root},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Walker) Root() string {
	return w.root
}

// Pending returns a copy of the directories queued but not yet read.
func (w *Walker) Pending() []string {
	out := make([]string, len(w.pending))
	copy(out, w.pending)
	return out
}

func (w *Walker) Entry() Entry {
	return w.entry
}

func (w *Walker) Err() error {
	return w.err
}

// Next advances to the next entry. It returns false once the tree is
// exhausted or an error occurred; Err tells the two apart. A walker does not
// resume after an error.
func (w *Walker) Next() bool {
	if w.err != nil {
		return false
	}

	for len(w.batch) == 0 {
		if len(w.pending) == 0 {
			return false
		}
		dir := w.pop()
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.err = errs.New(errs.KindTraversal, "readdir", dir, err)
			return false
		}
		w.batch = entries
		w.batchDir = dir
	}

	de := w.batch[0]
	w.batch = w.batch[1:]

	path := filepath.Join(w.batchDir, de.Name())
	kind, err := kindOf(path, de)
	if err != nil {
		w.err = err
		return false
	}
	if kind == KindDir {
		if _, ok := w.exclude[path]; ok {
			return w.Next()
		}
		w.pending = append(w.pending, path)
	}

	w.entry = Entry{Path: path, Name: de.Name(), Kind: kind}
	return true
}

func (w *Walker) pop() string {
	var dir string
	if w.order == Queue {
		dir = w.pending[0]
		w.pending = w.pending[1:]
	} else {
		last := len(w.pending) - 1
		dir = w.pending[last]
		w.pending = w.pending[:last]
	}
	return dir
}

// kindOf follows symlinks to regular files. Dangling links and links to
// directories are reported instead of being skipped.
func kindOf(path string, de fs.DirEntry) (Kind, error) {
	mode := de.Type()
	switch {
	case mode.IsDir():
		return KindDir, nil
	case mode.IsRegular():
		return KindFile, nil
	case mode&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			return KindOther, errs.New(errs.KindTraversal, "stat", path, err)
		}
		if info.IsDir() {
			return KindOther, errs.Errorf(errs.KindTraversal, "stat", path, "symlinked directories are not followed")
		}
		if info.Mode().IsRegular() {
			return KindFile, nil
		}
	}
	return KindOther, nil
}
