package rendering

import (
	"embed"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*
var defaultTemplates embed.FS

// DefaultTemplates returns the built-in template set
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(defaultTemplates, "templates")
	if err != nil {
		// templates/ is embedded at compile time
		panic(err)
	}
	return sub
}

// HTMLRenderer renders *.html templates with html/template and *.css templates with text/template.
// Templates are parsed once; Render is safe for concurrent use.
type HTMLRenderer struct {
	pages  *htmltemplate.Template
	styles *texttemplate.Template
}

// NewHTMLRenderer parses every template found at the root of fsys
func NewHTMLRenderer(fsys fs.FS) (*HTMLRenderer, error) {
	htmlFiles, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, &TemplateError{Message: "failed to list html templates", Cause: err}
	}
	if len(htmlFiles) == 0 {
		return nil, &TemplateError{Message: "no html templates found"}
	}

	pages, err := htmltemplate.New("site").Funcs(htmlFuncs()).ParseFS(fsys, htmlFiles...)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse html templates", Cause: err}
	}

	r := &HTMLRenderer{pages: pages}

	cssFiles, err := fs.Glob(fsys, "*.css")
	if err != nil {
		return nil, &TemplateError{Message: "failed to list css templates", Cause: err}
	}
	if len(cssFiles) > 0 {
		r.styles, err = texttemplate.New("styles").Funcs(textFuncs()).ParseFS(fsys, cssFiles...)
		if err != nil {
			return nil, &TemplateError{Message: "failed to parse css templates", Cause: err}
		}
	}

	return r, nil
}

// NewDefaultRenderer returns a renderer over the built-in templates
func NewDefaultRenderer() (*HTMLRenderer, error) {
	return NewHTMLRenderer(DefaultTemplates())
}

// LoadRenderer uses the templates in dir, or the built-in set when dir is empty
func LoadRenderer(dir string) (*HTMLRenderer, error) {
	if dir == "" {
		return NewDefaultRenderer()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &TemplateError{Message: "template directory not found: " + dir, Cause: err}
	}
	if !info.IsDir() {
		return nil, &TemplateError{Message: "template path is not a directory: " + dir}
	}
	return NewHTMLRenderer(os.DirFS(dir))
}

// Render executes the named template with data
func (r *HTMLRenderer) Render(name string, data map[string]any) (string, error) {
	var sb strings.Builder

	if strings.HasSuffix(name, ".css") {
		if r.styles == nil || r.styles.Lookup(name) == nil {
			return "", &TemplateError{Name: name, Message: "template not found"}
		}
		if err := r.styles.ExecuteTemplate(&sb, name, data); err != nil {
			return "", &TemplateError{Name: name, Message: "failed to execute template", Cause: err}
		}
		return sb.String(), nil
	}

	if r.pages.Lookup(name) == nil {
		return "", &TemplateError{Name: name, Message: "template not found"}
	}
	if err := r.pages.ExecuteTemplate(&sb, name, data); err != nil {
		return "", &TemplateError{Name: name, Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}
