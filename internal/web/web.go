// Package web embeds the HTML pages served by the handlers.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page; names are the file base names (e.g. "producto.html").
func Templates() *template.Template {
	return template.Must(template.ParseFS(files, "templates/*.html"))
}
