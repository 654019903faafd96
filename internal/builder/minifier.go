package builder

import (
	"errors"
	"mime"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"
)

// FileWriter post-processes rendered output before it is written. Copied
// files never go through it.
type FileWriter interface {
	Transform(mediatype string, b []byte) ([]byte, error)
}

type TDMinifier struct {
	Minifier *minify.M
}

// Transform minifies b when a minifier is registered for its media type and
// returns it unchanged otherwise.
func (m *TDMinifier) Transform(mediatype string, b []byte) ([]byte, error) {
	if mediatype == "" {
		return b, nil
	}
	if mt, _, err := mime.ParseMediaType(mediatype); err == nil {
		mediatype = mt
	}

	out, err := m.Minifier.Bytes(mediatype, b)
	if errors.Is(err, minify.ErrNotExist) {
		return b, nil
	}
	return out, err
}

type NOOPMinifier struct {
}

func (m *NOOPMinifier) Transform(mediatype string, b []byte) ([]byte, error) {
	return b, nil
}

func newTDMinifier() *TDMinifier {
	minifier := minify.New()
	minifier.AddFunc("text/css", css.Minify)
	minifier.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	minifier.AddFunc("image/svg+xml", svg.Minify)
	minifier.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	minifier.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)
	minifier.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	return &TDMinifier{
		Minifier: minifier,
	}
}
