// Package web holds the embedded dashboard page and stylesheet.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

const PageDashboard = "dashboard.gohtml"

//go:embed templates/*.gohtml
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"prev": func(p int) int { return p - 1 },
	"next": func(p int) int { return p + 1 },
}

// Templates parses every page; a parse error is a build defect, so it panics.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml"))
}

// Static serves the stylesheet rooted at static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
