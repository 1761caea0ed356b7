// Package templates renders the site's HTML pages for echo.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"time"

	"github.com/anonto42/blogfeed/backend/internal/pagination"
	"github.com/labstack/echo/v4"
)

//go:embed html
var files embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006 15:04")
	},
	"pageURL": func(n int) string {
		return "?page=" + strconv.Itoa(n)
	},
	"isCurrent": func(pg pagination.Page, n int) bool {
		return pg.Number == n
	},
}

// Renderer implements echo.Renderer. Each page is executed through the
// shared base layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	base, err := template.New("base.html").Funcs(funcs).ParseFS(files, "html/base.html", "html/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	entries, err := fs.Glob(files, "html/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(files, entry); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry, err)
		}
		r.pages[path.Base(entry)] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base.html", data)
}
