package builder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/toastate/grips/internal/classify"
	"github.com/toastate/grips/internal/errs"
	"github.com/toastate/grips/internal/render"
	"github.com/toastate/grips/internal/tlogger"
	"github.com/toastate/grips/internal/walker"
	"github.com/toastate/grips/pkg/config"
)

// Init is idempotent, multiple calls will only initialize the builder once.
// It fails before touching the build folder when the source folder is
// missing.
func (b *Builder) Init() error {
	if b.initialized {
		return nil
	}

	tlogger.Debug("msg", "Configuration", "dump", spew.Sdump(b.conf))

	info, err := os.Stat(b.srcDir)
	if err != nil {
		tlogger.Error("msg", "Src folder not found", "path", b.srcDir, "err", err)
		return errs.New(errs.KindSourceMissing, "stat source", b.srcDir, err)
	}
	if !info.IsDir() {
		tlogger.Error("msg", "Src is not a folder", "path", b.srcDir)
		return errs.Errorf(errs.KindSourceMissing, "stat source", b.srcDir, "not a directory")
	}

	// a build folder nested in the source folder is left out of the walk,
	// otherwise every build would copy the previous one
	absSrc, err := filepath.Abs(b.srcDir)
	if err != nil {
		return errs.New(errs.KindConfigParse, "init", b.srcDir, err)
	}
	absDst, err := filepath.Abs(b.buildDir)
	if err != nil {
		return errs.New(errs.KindConfigParse, "init", b.buildDir, err)
	}
	if absSrc == absDst {
		tlogger.Error("msg", "Build folder is the src folder", "path", b.buildDir)
		return errs.Errorf(errs.KindConfigParse, "init", b.buildDir, "target must differ from source")
	}
	b.excludeDirs = nil
	if nested, ok, _ := walker.Under(b.srcDir, b.buildDir); ok {
		tlogger.Debug("msg", "Build folder inside src folder, excluded from walk", "path", nested)
		b.excludeDirs = append(b.excludeDirs, nested)
	}

	strategy, err := classify.ParseStrategy(b.conf.ExtensionMatch)
	if err != nil {
		return errs.New(errs.KindConfigParse, "init", "", err)
	}
	b.classifier = classify.New(b.conf.RenderExtension, b.conf.ExtensionsToCopy, strategy)

	b.order = walker.Stack
	if b.conf.WalkOrder == "queue" {
		b.order = walker.Queue
	}

	b.renderer = b.opts.Renderer
	if b.renderer == nil {
		b.renderer, err = render.New(b.conf.Engine)
		if err != nil {
			return errs.New(errs.KindConfigParse, "init", "", err)
		}
	}

	b.filewriter = &NOOPMinifier{}
	if b.conf.Minify {
		b.filewriter = newTDMinifier()
	}

	b.fileBuilders = map[classify.Disposition]FileBuilder{
		classify.Render: &RenderBuilder{builder: b},
		classify.Copy:   &CopyBuilder{builder: b},
	}
	for _, v := range b.fileBuilders {
		if err := v.Init(); err != nil {
			return err
		}
	}

	b.initialized = true
	return nil
}

// Build walks the source folder once and renders or copies every eligible
// file. It stops at the first fatal error; files written before that point
// stay on disk.
func (b *Builder) Build() (*Report, error) {
	if err := b.Init(); err != nil {
		return nil, err
	}

	if b.conf.Clean {
		if err := os.RemoveAll(b.buildDir); err != nil {
			tlogger.Error("msg", "Failed to remove build folder", "path", b.buildDir, "err", err)
			return nil, errs.New(errs.KindIO, "clean", b.buildDir, err)
		}
	}

	tlogger.Info("msg", "Building started", "path", b.srcDir)

	// a fresh cache per build, the previous build's folders may be gone
	b.folders = NewMaterializer()
	report := &Report{}
	w := walker.New(b.srcDir, walker.WithOrder(b.order), walker.WithExclude(b.excludeDirs...))
	for w.Next() {
		e := w.Entry()
		if e.Kind != walker.KindFile {
			// directories are already queued by the walker and only
			// materialized under their first written file
			continue
		}

		rel, err := relativePath(b.srcDir, e.Path)
		if err != nil {
			tlogger.Error("msg", "Failed to get relative path", "path", e.Path, "err", err)
			return nil, err
		}

		res := b.classifier.Classify(e.Name)
		fb, ok := b.fileBuilders[res.Disposition]
		if !ok {
			tlogger.Debug("msg", "Skipping file", "path", rel, "token", res.Token)
			report.Skipped++
			continue
		}

		err = fb.Process(e, rel)
		if err != nil {
			if errs.Is(err, errs.KindRender) && b.conf.OnRenderError == config.OnRenderErrorSkip {
				tlogger.Warn("msg", "Render failed, skipping file", "path", rel, "err", err)
				report.RenderFailures = append(report.RenderFailures, rel)
				continue
			}
			tlogger.Error("msg", "Error processing file", "path", rel, "disposition", res.Disposition, "err", err)
			return nil, err
		}

		report.Processed++
		if res.Disposition == classify.Render {
			report.Rendered++
		} else {
			report.Copied++
		}
	}
	if err := w.Err(); err != nil {
		tlogger.Error("msg", "Failed to walk source folder", "path", b.srcDir, "err", err)
		return nil, err
	}

	tlogger.Info("msg", "Building finished", "path", b.srcDir, "processed", report.Processed)
	return report, nil
}

// relativePath strips root from path. Anything outside root means the
// walker yielded a path it should not have.
func relativePath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", errs.New(errs.KindPathInvariant, "relative path", path, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errs.Errorf(errs.KindPathInvariant, "relative path", path, "not below %s", root)
	}
	return rel, nil
}
