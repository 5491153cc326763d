// Package templates renders the console's HTML pages. Every page is
// parsed together with the base layout and looked up by name through
// echo's Renderer interface.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed *.html
var templateFS embed.FS

var pages = []string{"login", "main", "datastore_edit", "error"}

// Renderer implements echo.Renderer over the embedded pages.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses all embedded pages against the base layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	funcs := template.FuncMap{
		"comment":   Comment,
		"schedule":  Schedule,
		"retention": RetentionSummary,
		"editURL":   EditURL,
	}

	for _, name := range pages {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "base.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Render writes the named page. Unknown names are a programming error
// and reported as such.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template: %s", name)
	}
	return tmpl.ExecuteTemplate(w, "base.html", data)
}
