// Package builder is the public entry point for running a build from Go code.
package builder

import (
	"github.com/toastate/grips/internal/builder"
	"github.com/toastate/grips/internal/render"
	"github.com/toastate/grips/pkg/config"
)

type Report = builder.Report

// Renderer lets callers plug their own template engine.
type Renderer = render.Renderer

type Builder interface {
	Build() (*Report, error)
}

func NewBuilder(conf *config.Configuration) Builder {
	return builder.NewBuilder(conf)
}

// NewBuilderWithRenderer renders templates with r instead of the engine named
// in the configuration.
func NewBuilderWithRenderer(conf *config.Configuration, r Renderer) Builder {
	return builder.NewBuilder(conf, &builder.BuilderOpts{Renderer: r})
}
