// Package render turns filtered record views into HTML fragments. Templates
// are embedded so rendering is deterministic and testable without a working
// directory. All record fields pass through html/template's contextual
// escaping — alert titles, messages and rule conditions originate from other
// users or from network payloads and must never reach the page as markup.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer holds the parsed template set.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded template set.
func New() (*Renderer, error) {
	tmpl, err := template.New("console").Funcs(template.FuncMap{
		"pct": func(f float64) int { return int(f * 100) },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Fragment renders one named template to a string. An empty input sequence
// renders the template's empty-state placeholder instead of record fragments.
func (r *Renderer) Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Page renders a full page template to the writer.
func (r *Renderer) Page(w io.Writer, name string, data any) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
