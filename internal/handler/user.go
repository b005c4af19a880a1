package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"warbler/internal/model"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

// UserHandler serves the user directory, profiles, the follow graph pages
// and profile management.
type UserHandler struct {
	users    *service.UserService
	follows  *service.FollowService
	messages *service.MessageService
	likes    *service.LikeService
	sessions *middleware.Sessions
	pages    *Pages
}

func NewUserHandler(
	users *service.UserService,
	follows *service.FollowService,
	messages *service.MessageService,
	likes *service.LikeService,
	sessions *middleware.Sessions,
	pages *Pages,
) *UserHandler {
	return &UserHandler{
		users:    users,
		follows:  follows,
		messages: messages,
		likes:    likes,
		sessions: sessions,
		pages:    pages,
	}
}

type userListData struct {
	Query string
	Users []model.User
}

// Index lists users, optionally filtered by the q query parameter.
func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	users, err := h.users.Search(r.Context(), q, 0)
	if err != nil {
		log.Printf("[UserHandler] Search failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "users.html", &userListData{Query: q, Users: users})
}

type profileData struct {
	Profile     *model.Profile
	Messages    []model.Message
	IsFollowing bool
}

// Show renders a profile: the user, their four stat counts, and their
// latest messages. Public.
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	profile, err := h.users.Profile(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			h.pages.NotFound(w, r)
			return
		}
		log.Printf("[UserHandler] Profile failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	messages, err := h.messages.ByUser(r.Context(), id, 0)
	if err != nil {
		log.Printf("[UserHandler] Messages lookup failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := &profileData{Profile: profile, Messages: messages}
	if viewer, ok := middleware.UserFromContext(r.Context()); ok && viewer.ID != id {
		following, err := h.follows.IsFollowing(r.Context(), viewer.ID, id)
		if err == nil {
			data.IsFollowing = following
		}
	}

	h.pages.Render(w, r, http.StatusOK, "profile.html", data)
}

type followListData struct {
	Title string
	User  *model.User
	Users []model.User
}

// Following lists who {id} follows. Authenticated-only.
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.renderFollowList(w, r, "Following", h.follows.Following)
}

// Followers lists who follows {id}. Authenticated-only.
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.renderFollowList(w, r, "Followers", h.follows.Followers)
}

func (h *UserHandler) renderFollowList(
	w http.ResponseWriter,
	r *http.Request,
	title string,
	list func(ctx context.Context, userID int64) ([]model.User, error),
) {
	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			h.pages.NotFound(w, r)
			return
		}
		log.Printf("[UserHandler] User lookup failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	users, err := list(r.Context(), id)
	if err != nil {
		log.Printf("[UserHandler] %s lookup failed: %v", title, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "follow_list.html", &followListData{
		Title: title,
		User:  user,
		Users: users,
	})
}

type likesData struct {
	User     *model.User
	Messages []model.Message
}

// Likes lists the messages {id} has liked. Authenticated-only.
func (h *UserHandler) Likes(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			h.pages.NotFound(w, r)
			return
		}
		log.Printf("[UserHandler] User lookup failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	messages, err := h.likes.MessagesLikedBy(r.Context(), id)
	if err != nil {
		log.Printf("[UserHandler] Likes lookup failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "likes.html", &likesData{User: user, Messages: messages})
}

// Follow adds a follow edge from the current user to {id}.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if err := h.follows.Follow(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			h.pages.NotFound(w, r)
			return
		case errors.Is(err, model.ErrCannotFollowSelf):
			h.sessions.Flash(w, r, "You cannot follow yourself.")
		case errors.Is(err, model.ErrAlreadyFollowing):
			// Edge already there; the outcome the user wanted.
		default:
			log.Printf("[UserHandler] Follow failed: %v", err)
			h.sessions.Flash(w, r, "Something went wrong, please try again.")
		}
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", user.ID), http.StatusFound)
}

// StopFollowing removes the follow edge from the current user to {id}.
func (h *UserHandler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := urlID(r)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if err := h.follows.Unfollow(r.Context(), user.ID, id); err != nil && !errors.Is(err, model.ErrNotFollowing) {
		log.Printf("[UserHandler] Unfollow failed: %v", err)
		h.sessions.Flash(w, r, "Something went wrong, please try again.")
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", user.ID), http.StatusFound)
}

// EditForm renders the profile editor for the current user.
func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "edit_profile.html", nil)
}

// Edit applies profile changes. The form's password field must match the
// current credential or the whole edit is rejected as unauthorized.
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.pages.Flash(w, r, "Invalid form submission.", "/users/profile")
		return
	}

	upd := &model.ProfileUpdate{
		Username:       r.PostFormValue("username"),
		Email:          r.PostFormValue("email"),
		ImageURL:       r.PostFormValue("image_url"),
		HeaderImageURL: r.PostFormValue("header_image_url"),
		Bio:            r.PostFormValue("bio"),
		Location:       r.PostFormValue("location"),
		Password:       r.PostFormValue("password"),
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, upd)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameTaken):
			h.pages.Flash(w, r, "Username already taken.", "/users/profile")
		case errors.Is(err, model.ErrEmailTaken):
			h.pages.Flash(w, r, "E-mail already taken.", "/users/profile")
		default:
			log.Printf("[UserHandler] Profile update failed: %v", err)
			h.pages.Flash(w, r, "Something went wrong, please try again.", "/users/profile")
		}
		return
	}
	if updated == nil {
		h.pages.Unauthorized(w, r)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// Delete removes the current user's account and ends the session.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := h.sessions.Logout(w, r); err != nil {
		log.Printf("[UserHandler] Failed to clear session: %v", err)
	}

	if err := h.users.Delete(r.Context(), user.ID); err != nil {
		log.Printf("[UserHandler] Account deletion failed: %v", err)
		h.pages.Flash(w, r, "Something went wrong, please try again.", "/")
		return
	}

	http.Redirect(w, r, "/signup", http.StatusFound)
}
