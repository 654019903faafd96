// Package classify decides, from a file name alone, whether a file is
// rendered, copied or skipped.
package classify

import (
	"fmt"
	"strings"
)

// Strategy selects which dot starts a file's extension token.
type Strategy int

const (
	// FirstDot takes everything after the first dot: "page.hbs.html" -> "hbs.html".
	FirstDot Strategy = iota
	// LastDot takes everything after the last dot: "page.hbs.html" -> "html".
	LastDot
)

func (s Strategy) String() string {
	switch s {
	case FirstDot:
		return "first_dot"
	case LastDot:
		return "last_dot"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a configuration value to a Strategy. The empty string is
// FirstDot.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "first_dot":
		return FirstDot, nil
	case "last_dot":
		return LastDot, nil
	}
	return FirstDot, fmt.Errorf("unknown extension match strategy %q", s)
}

type Disposition int

const (
	Skip Disposition = iota
	Render
	Copy
)

func (d Disposition) String() string {
	switch d {
	case Render:
		return "render"
	case Copy:
		return "copy"
	}
	return "skip"
}

// Result is the outcome of classifying one file name.
type Result struct {
	Token       string
	HasToken    bool
	Disposition Disposition
}

type Classifier struct {
	renderExtension string
	copyExtensions  map[string]struct{}
	strategy        Strategy
}

func New(renderExtension string, copyExtensions []string, strategy Strategy) *Classifier {
	c := &Classifier{
		renderExtension: renderExtension,
		copyExtensions:  make(map[string]struct{}, len(copyExtensions)),
		strategy:        strategy,
	}
	for _, ext := range copyExtensions {
		c.copyExtensions[ext] = struct{}{}
	}
	return c
}

// Token extracts the extension token of a base file name.
func (c *Classifier) Token(name string) (string, bool) {
	var i int
	if c.strategy == LastDot {
		i = strings.LastIndexByte(name, '.')
	} else {
		i = strings.IndexByte(name, '.')
	}
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}

// Classify applies the render rule first, then the copy set. Names are
// compared byte for byte.
func (c *Classifier) Classify(name string) Result {
	token, ok := c.Token(name)
	if !ok {
		return Result{Disposition: Skip}
	}

	res := Result{Token: token, HasToken: true, Disposition: Skip}
	if token == c.renderExtension {
		res.Disposition = Render
	} else if _, ok := c.copyExtensions[token]; ok {
		res.Disposition = Copy
	}
	return res
}

// OutputName strips the render marker from a rendered file's name:
// with "hbs.html", "about.hbs.html" becomes "about.html". A render extension
// without a marker segment leaves the name untouched.
func (c *Classifier) OutputName(name string) string {
	i := strings.LastIndexByte(c.renderExtension, '.')
	if i < 0 {
		return name
	}
	marker := "." + c.renderExtension[:i] + "."
	return strings.Replace(name, marker, ".", 1)
}
