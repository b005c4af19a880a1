// Package web renders the server-side HTML pages. Template design is
// deliberately minimal; the pages exist to carry the application's state
// (messages, user lists, stats, flash messages) to the browser.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"warbler/internal/model"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data envelope every template receives.
type Page struct {
	CurrentUser *model.User
	Flashes     []string
	Data        interface{}
}

// Renderer holds the parsed template set, one entry per page, each paired
// with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var pageNames = []string{
	"landing.html",
	"home.html",
	"signup.html",
	"login.html",
	"users.html",
	"profile.html",
	"edit_profile.html",
	"follow_list.html",
	"likes.html",
	"message.html",
	"notfound.html",
}

// New parses the embedded templates. Called once at startup; a broken
// template is a programming error and fails the boot.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(files, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page. The template executes into a buffer first so
// a render error yields a clean 500 instead of a half-written body.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	t, ok := r.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
