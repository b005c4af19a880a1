package handler

import (
	"log"
	"net/http"

	"warbler/internal/model"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

// HomeHandler serves the root page: the home timeline for authenticated
// users, the landing page for everyone else.
type HomeHandler struct {
	timeline *service.TimelineService
	pages    *Pages
}

func NewHomeHandler(timeline *service.TimelineService, pages *Pages) *HomeHandler {
	return &HomeHandler{timeline: timeline, pages: pages}
}

type homeData struct {
	Messages []model.Message
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.pages.Render(w, r, http.StatusOK, "landing.html", nil)
		return
	}

	messages, err := h.timeline.Home(r.Context(), user.ID)
	if err != nil {
		log.Printf("[HomeHandler] Timeline failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "home.html", &homeData{Messages: messages})
}
