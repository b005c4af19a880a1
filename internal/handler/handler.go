package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"warbler/internal/transport/http/middleware"
	"warbler/internal/web"
)

// Pages bundles what every handler needs to produce a response: the template
// renderer and the session store for flashes.
type Pages struct {
	renderer *web.Renderer
	sessions *middleware.Sessions
}

func NewPages(renderer *web.Renderer, sessions *middleware.Sessions) *Pages {
	return &Pages{renderer: renderer, sessions: sessions}
}

// Render draws a page with the current user and any pending flashes.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	user, _ := middleware.UserFromContext(r.Context())
	p.renderer.Render(w, status, name, &web.Page{
		CurrentUser: user,
		Flashes:     p.sessions.Flashes(w, r),
		Data:        data,
	})
}

// Unauthorized flashes the standard message and sends the client home.
// Authorization failures are never HTTP error codes.
func (p *Pages) Unauthorized(w http.ResponseWriter, r *http.Request) {
	p.sessions.Flash(w, r, middleware.FlashAccessUnauthorized)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Flash queues a message and redirects.
func (p *Pages) Flash(w http.ResponseWriter, r *http.Request, msg, location string) {
	p.sessions.Flash(w, r, msg)
	http.Redirect(w, r, location, http.StatusFound)
}

// NotFound renders the 404 page.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusNotFound, "notfound.html", nil)
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// backTo picks the redirect target for "return where you came from" actions.
func backTo(r *http.Request) string {
	if ref := r.Referer(); ref != "" {
		return ref
	}
	return "/"
}
