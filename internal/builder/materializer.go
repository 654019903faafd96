package builder

import (
	"os"
	"path/filepath"

	"github.com/toastate/grips/internal/errs"
	"github.com/toastate/grips/internal/tlogger"
)

// Materializer creates build folders on demand, right before the first file
// written beneath them. Source folders that hold no rendered or copied file
// never appear in the build folder.
type Materializer struct {
	created map[string]struct{}
}

func NewMaterializer() *Materializer {
	return &Materializer{created: map[string]struct{}{}}
}

// EnsureParent creates every missing folder above target. Existing folders
// are not an error.
func (m *Materializer) EnsureParent(target string) error {
	dir := filepath.Dir(target)
	if _, ok := m.created[dir]; ok {
		return nil
	}

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		tlogger.Error("builder", "folder", "file", dir, "msg", "Failed to create folder", "err", err)
		return errs.New(errs.KindIO, "mkdir", dir, err)
	}

	m.created[dir] = struct{}{}
	tlogger.Debug("builder", "folder", "file", dir, "msg", "Folder ready")
	return nil
}
