package rendering

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown converts blog post content to HTML. Raw HTML in the source is not passed through.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", &RenderError{Message: "failed to convert markdown", Cause: err}
	}
	//nolint:gosec // goldmark escapes raw HTML unless WithUnsafe is set
	return template.HTML(buf.String()), nil
}
