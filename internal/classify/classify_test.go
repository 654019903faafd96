package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStrategies(t *testing.T) {
	first := New("hbs.html", nil, FirstDot)
	last := New("hbs.html", nil, LastDot)

	cases := []struct {
		name     string
		firstDot string
		lastDot  string
		hasToken bool
	}{
		{"page.hbs.html", "hbs.html", "html", true},
		{"style.css", "css", "css", true},
		{"archive.tar.gz", "tar.gz", "gz", true},
		{".gitignore", "gitignore", "gitignore", true},
		{"Makefile", "", "", false},
		{"trailing.", "", "", true},
	}

	for _, tc := range cases {
		tok, ok := first.Token(tc.name)
		assert.Equal(t, tc.hasToken, ok, tc.name)
		assert.Equal(t, tc.firstDot, tok, tc.name)

		tok, ok = last.Token(tc.name)
		assert.Equal(t, tc.hasToken, ok, tc.name)
		assert.Equal(t, tc.lastDot, tok, tc.name)
	}
}

func TestClassifyFirstDot(t *testing.T) {
	c := New("hbs.html", []string{"html", "css", "png"}, FirstDot)

	assert.Equal(t, Render, c.Classify("about.hbs.html").Disposition)
	assert.Equal(t, Copy, c.Classify("index.html").Disposition)
	assert.Equal(t, Copy, c.Classify("logo.png").Disposition)
	assert.Equal(t, Skip, c.Classify("notes.txt").Disposition)
	assert.Equal(t, Skip, c.Classify("README").Disposition)
	// first-dot keeps every segment, so a multi-dotted asset does not match "css"
	assert.Equal(t, Skip, c.Classify("app.min.css").Disposition)
}

func TestClassifyLastDot(t *testing.T) {
	c := New("hbs.html", []string{"html"}, LastDot)

	// the two-segment marker can never match a last-dot token
	res := c.Classify("about.hbs.html")
	assert.Equal(t, "html", res.Token)
	assert.Equal(t, Copy, res.Disposition)

	c = New("hbs", []string{"css"}, LastDot)
	assert.Equal(t, Render, c.Classify("layout.hbs").Disposition)
	assert.Equal(t, Copy, c.Classify("app.min.css").Disposition)
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	c := New("hbs.html", []string{"png"}, FirstDot)
	assert.Equal(t, Skip, c.Classify("LOGO.PNG").Disposition)
	assert.Equal(t, Skip, c.Classify("page.HBS.html").Disposition)
}

func TestRenderWinsOverCopy(t *testing.T) {
	c := New("html", []string{"html"}, LastDot)
	assert.Equal(t, Render, c.Classify("index.html").Disposition)
}

func TestOutputName(t *testing.T) {
	c := New("hbs.html", nil, FirstDot)
	assert.Equal(t, "about.html", c.OutputName("about.hbs.html"))
	assert.Equal(t, ".html", c.OutputName(".hbs.html"))

	c = New("tpl.min.js", nil, FirstDot)
	assert.Equal(t, "app.js", c.OutputName("app.tpl.min.js"))

	c = New("hbs", nil, LastDot)
	assert.Equal(t, "layout.hbs", c.OutputName("layout.hbs"))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, FirstDot, s)

	s, err = ParseStrategy("last_dot")
	require.NoError(t, err)
	assert.Equal(t, LastDot, s)
	assert.Equal(t, "last_dot", s.String())

	_, err = ParseStrategy("middle_dot")
	require.Error(t, err)
}
