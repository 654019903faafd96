package builder

import (
	"path/filepath"

	"github.com/toastate/grips/internal/errs"
	"github.com/toastate/grips/internal/tlogger"
	"github.com/toastate/grips/internal/walker"
)

type CopyBuilder struct {
	builder *Builder
}

func (cp *CopyBuilder) Init() error {
	tlogger.Debug("builder", "copy", "msg", "init")
	return nil
}

func (cp *CopyBuilder) Process(e walker.Entry, rel string) error {
	tlogger.Debug("builder", "copy", "msg", "processing", "file", rel)

	target := filepath.Join(cp.builder.buildDir, rel)
	if err := cp.builder.folders.EnsureParent(target); err != nil {
		return err
	}

	if _, err := copyFile(e.Path, target); err != nil {
		tlogger.Error("builder", "copy", "msg", "copy failed", "file", rel, "err", err)
		return errs.New(errs.KindIO, "copy", e.Path, err)
	}
	return nil
}
