package render

import (
	"strings"
	"text/template"
)

// GoTemplateRenderer renders text/template templates. Variables are reached
// as {{.name}}; a missing one renders empty.
type GoTemplateRenderer struct{}

func (r *GoTemplateRenderer) Render(text string, vars map[string]string) (string, error) {
	t, err := template.New("page").Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := t.Execute(&sb, vars); err != nil {
		return "", err
	}
	return sb.String(), nil
}
