// Package render provides the template engines a build can use. The builder
// only sees the Renderer interface.
package render

import "fmt"

const (
	EngineHandlebars = "handlebars"
	EngineGoTemplate = "gotemplate"
)

// Renderer turns template text and a variable map into the rendered text.
type Renderer interface {
	Render(text string, vars map[string]string) (string, error)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(text string, vars map[string]string) (string, error)

func (f RendererFunc) Render(text string, vars map[string]string) (string, error) {
	return f(text, vars)
}

// New returns the engine registered under name. The empty name is Handlebars.
func New(name string) (Renderer, error) {
	switch name {
	case "", EngineHandlebars:
		return &HandlebarsRenderer{}, nil
	case EngineGoTemplate:
		return &GoTemplateRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown template engine %q", name)
}
