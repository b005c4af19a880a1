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

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	users    *service.UserService
	sessions *middleware.Sessions
	pages    *Pages
}

func NewAuthHandler(users *service.UserService, sessions *middleware.Sessions, pages *Pages) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, pages: pages}
}

func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "signup.html", nil)
}

// Signup creates the account and logs the new user straight in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.Flash(w, r, "Invalid form submission.", "/signup")
		return
	}

	req := &model.SignupRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		ImageURL: r.PostFormValue("image_url"),
	}

	user, err := h.users.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPasswordRequired):
			h.sessions.Flash(w, r, "You have to enter a password.")
		case errors.Is(err, model.ErrUsernameTaken):
			h.sessions.Flash(w, r, "Username already taken.")
		case errors.Is(err, model.ErrEmailTaken):
			h.sessions.Flash(w, r, "E-mail already taken.")
		default:
			log.Printf("[AuthHandler] Signup failed: %v", err)
			h.sessions.Flash(w, r, "Something went wrong, please try again.")
		}
		h.pages.Render(w, r, http.StatusOK, "signup.html", nil)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		log.Printf("[AuthHandler] Failed to establish session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "login.html", nil)
}

// Login authenticates and establishes the session marker. Bad credentials
// re-render the form with a flash; they are not an error condition.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.Flash(w, r, "Invalid form submission.", "/login")
		return
	}

	user, err := h.users.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		log.Printf("[AuthHandler] Login failed: %v", err)
		h.sessions.Flash(w, r, "Something went wrong, please try again.")
		h.pages.Render(w, r, http.StatusOK, "login.html", nil)
		return
	}
	if user == nil {
		h.sessions.Flash(w, r, "Invalid credentials.")
		h.pages.Render(w, r, http.StatusOK, "login.html", nil)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		log.Printf("[AuthHandler] Failed to establish session: %v", err)
	}
	h.sessions.Flash(w, r, fmt.Sprintf("Hello, %s!", user.Username))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		log.Printf("[AuthHandler] Failed to clear session: %v", err)
	}
	h.pages.Flash(w, r, "You have successfully logged out.", "/login")
}
