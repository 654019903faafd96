package builder

import (
	"bytes"
	"mime"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/toastate/grips/internal/errs"
	"github.com/toastate/grips/internal/tlogger"
	"github.com/toastate/grips/internal/walker"
)

type RenderBuilder struct {
	builder *Builder
}

func (rb *RenderBuilder) Init() error {
	tlogger.Debug("builder", "render", "msg", "init")
	return nil
}

// OutputPath maps a relative source path to its rendered file in the build
// folder, dropping the render marker from the file name.
func (rb *RenderBuilder) OutputPath(rel string) string {
	dir, name := filepath.Split(rel)
	return filepath.Join(rb.builder.buildDir, dir, rb.builder.classifier.OutputName(name))
}

func (rb *RenderBuilder) Process(e walker.Entry, rel string) error {
	tlogger.Debug("builder", "render", "msg", "processing", "file", rel)

	f, err := os.ReadFile(e.Path)
	if err != nil {
		tlogger.Error("builder", "render", "msg", "file error", "file", rel, "err", err)
		return errs.New(errs.KindIO, "read", e.Path, err)
	}
	if rb.builder.conf.NormalizeNewlines {
		f = replaceWindowsCarriageReturn(f)
	}

	rendered, err := rb.builder.renderer.Render(string(f), rb.builder.conf.Vars)
	if err != nil {
		tlogger.Error("builder", "render", "msg", "templater", "file", rel, "err", err)
		return errs.New(errs.KindRender, "render", e.Path, err)
	}

	pathOut := rb.OutputPath(rel)
	out, err := rb.builder.filewriter.Transform(mime.TypeByExtension(filepath.Ext(pathOut)), []byte(rendered))
	if err != nil {
		tlogger.Error("builder", "render", "msg", "minifier", "file", rel, "err", err)
		return errs.New(errs.KindRender, "minify", e.Path, err)
	}

	// no folder for a page that failed to render
	if err := rb.builder.folders.EnsureParent(pathOut); err != nil {
		return err
	}

	// temp file + rename: never a half written page
	if err := atomic.WriteFile(pathOut, bytes.NewReader(out)); err != nil {
		tlogger.Error("builder", "render", "msg", "output file creation", "file", pathOut, "err", err)
		return errs.New(errs.KindIO, "write", pathOut, err)
	}
	// the temp file behind the atomic write is private, pages must not be
	if err := os.Chmod(pathOut, 0644); err != nil {
		return errs.New(errs.KindIO, "chmod", pathOut, err)
	}
	return nil
}
