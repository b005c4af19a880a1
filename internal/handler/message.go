package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"warbler/internal/model"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

// MessageHandler serves warble creation, display, deletion and the like
// toggle. Every route here sits behind the authorization guard.
type MessageHandler struct {
	messages *service.MessageService
	likes    *service.LikeService
	sessions *middleware.Sessions
	pages    *Pages
}

func NewMessageHandler(
	messages *service.MessageService,
	likes *service.LikeService,
	sessions *middleware.Sessions,
	pages *Pages,
) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		likes:    likes,
		sessions: sessions,
		pages:    pages,
	}
}

// New creates a message owned by the current session user.
func (h *MessageHandler) New(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.pages.Flash(w, r, "Invalid form submission.", "/")
		return
	}

	if _, err := h.messages.Create(r.Context(), user.ID, r.PostFormValue("text")); err != nil {
		switch {
		case errors.Is(err, model.ErrTextRequired):
			h.pages.Flash(w, r, "You have to enter a message.", "/")
		case errors.Is(err, model.ErrTextTooLong):
			h.pages.Flash(w, r, "Messages are limited to 140 characters.", "/")
		default:
			log.Printf("[MessageHandler] Create failed: %v", err)
			h.pages.Flash(w, r, "Something went wrong, please try again.", "/")
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

type messageData struct {
	Message   *model.Message
	LikeCount int
}

// Show renders a single message, or 404 when the id does not resolve.
func (h *MessageHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	msg, err := h.messages.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrMessageNotFound) {
			h.pages.NotFound(w, r)
			return
		}
		log.Printf("[MessageHandler] Show failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	likeCount, err := h.likes.CountForMessage(r.Context(), id)
	if err != nil {
		log.Printf("[MessageHandler] Like count failed: %v", err)
	}

	h.pages.Render(w, r, http.StatusOK, "message.html", &messageData{Message: msg, LikeCount: likeCount})
}

// Delete removes a message. Only its owner may do this; anyone else gets the
// unauthorized flash and the message stays.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if err := h.messages.Delete(r.Context(), id, user.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			h.pages.NotFound(w, r)
		case errors.Is(err, model.ErrNotMessageOwner):
			h.pages.Unauthorized(w, r)
		default:
			log.Printf("[MessageHandler] Delete failed: %v", err)
			h.pages.Flash(w, r, "Something went wrong, please try again.", "/")
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// ToggleLike flips the current user's like on a message and sends them back
// where they came from.
func (h *MessageHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if _, err := h.likes.Toggle(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			h.pages.NotFound(w, r)
			return
		case errors.Is(err, model.ErrOwnMessageLike):
			h.sessions.Flash(w, r, "You cannot like your own warble.")
		default:
			log.Printf("[MessageHandler] Like toggle failed: %v", err)
			h.sessions.Flash(w, r, "Something went wrong, please try again.")
		}
	}

	http.Redirect(w, r, backTo(r), http.StatusFound)
}
