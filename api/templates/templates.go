// Package templates holds the minimal server-rendered pages. Presentation is
// deliberately thin; the interesting behavior lives behind the forms.
package templates

import (
	"embed"
	"html/template"
	"io"
)

//go:embed *.html
var files embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"date": func(t interface{ Format(string) string }) string {
		return t.Format("01/02/2006")
	},
}).ParseFS(files, "*.html"))

// Render writes the named page to w.
func Render(w io.Writer, name string, data interface{}) error {
	return pages.ExecuteTemplate(w, name, data)
}
