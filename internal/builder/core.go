package builder

import (
	"github.com/toastate/grips/internal/classify"
	"github.com/toastate/grips/internal/render"
	"github.com/toastate/grips/internal/walker"
	"github.com/toastate/grips/pkg/config"
)

type Builder struct {
	opts *BuilderOpts
	conf *config.Configuration

	initialized bool

	buildDir string
	srcDir   string

	order       walker.Order
	excludeDirs []string
	classifier  *classify.Classifier
	renderer    render.Renderer
	filewriter  FileWriter
	folders     *Materializer

	fileBuilders map[classify.Disposition]FileBuilder
}

// BuilderOpts overrides collaborators that are otherwise derived from the
// configuration.
type BuilderOpts struct {
	Renderer render.Renderer
}

func NewBuilder(conf *config.Configuration, opts ...*BuilderOpts) *Builder {
	b := &Builder{
		conf:     conf,
		srcDir:   conf.Source,
		buildDir: conf.Target,
		opts:     &BuilderOpts{},
	}
	if len(opts) > 0 && opts[0] != nil {
		b.opts = opts[0]
	}
	return b
}

func (b *Builder) BuildDir() string {
	return b.buildDir
}

func (b *Builder) SrcDir() string {
	return b.srcDir
}

// ExcludedDirs lists the folders below the source folder that builds skip.
// Only valid after Init.
func (b *Builder) ExcludedDirs() []string {
	return b.excludeDirs
}

// Report is the outcome of one successful build. Processed counts every file
// rendered or copied.
type Report struct {
	Processed int
	Rendered  int
	Copied    int
	Skipped   int

	// RenderFailures lists source paths whose render failed while
	// on_render_error is "skip".
	RenderFailures []string
}

// FileBuilder handles the files of one disposition. rel is the path relative
// to the source root.
type FileBuilder interface {
	Init() error
	Process(e walker.Entry, rel string) error
}
