// Package views embeds the HTML templates rendered by the public site and
// the admin dashboard.
package views

import (
	"embed"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"excerpt": excerpt,
	"lower":   strings.ToLower,
}

// Templates parses every embedded page. Pages are addressed by file name,
// e.g. c.HTML(200, "home.html", ...).
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
