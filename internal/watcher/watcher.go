package watcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/toastate/grips/internal/tlogger"
	"github.com/toastate/grips/internal/walker"
)

// Watcher reports changes anywhere below a folder. Folders created after
// the watcher started are watched as they appear.
type Watcher struct {
	wch     *fsnotify.Watcher
	ignore  []string
	Updates <-chan string
}

// StartWatcher watches folder except the ignored subfolders, spelled as a
// walker started at folder spells them (see walker.Under).
func StartWatcher(folder string, ignore ...string) (*Watcher, error) {
	wch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addTree(wch, folder, ignore); err != nil {
		wch.Close()
		return nil, err
	}

	outCh := make(chan string, 100)
	w := &Watcher{wch: wch, ignore: ignore, Updates: outCh}

	go func() {
		defer close(outCh)
		for {
			select {
			case event, ok := <-wch.Events:
				if !ok {
					return
				}
				if w.ignored(event.Name) {
					continue
				}
				tlogger.Debug("msg", "fs event", "event", event.String())

				if event.Has(fsnotify.Create) {
					if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
						if err := addTree(wch, event.Name, ignore); err != nil {
							tlogger.Warn("msg", "Failed to watch new folder", "path", event.Name, "err", err)
						}
					}
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					tlogger.Info("msg", "Detected change", "path", event.Name)
					select {
					case outCh <- event.Name:
					default:
						// a rebuild is already pending
					}
				}
			case err, ok := <-wch.Errors:
				if !ok {
					return
				}
				tlogger.Warn("msg", "Watcher error", "err", err)
			}
		}
	}()

	return w, nil
}

func (w *Watcher) Close() error {
	return w.wch.Close()
}

func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func addTree(wch *fsnotify.Watcher, folder string, ignore []string) error {
	if err := wch.Add(folder); err != nil {
		return err
	}
	wk := walker.New(folder, walker.WithExclude(ignore...))
	for wk.Next() {
		if e := wk.Entry(); e.Kind == walker.KindDir {
			if err := wch.Add(e.Path); err != nil {
				return err
			}
		}
	}
	return wk.Err()
}
