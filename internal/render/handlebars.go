package render

import (
	"github.com/aymerick/raymond"
)

// HandlebarsRenderer renders Handlebars templates. Values are HTML-escaped
// unless the template uses triple mustaches.
type HandlebarsRenderer struct{}

func (r *HandlebarsRenderer) Render(text string, vars map[string]string) (string, error) {
	tpl, err := raymond.Parse(text)
	if err != nil {
		return "", err
	}
	return tpl.Exec(vars)
}
