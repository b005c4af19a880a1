package http

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"warbler/internal/handler"
	"warbler/internal/repository"
	authmw "warbler/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes.
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	HomeHandler    *handler.HomeHandler
	UserHandler    *handler.UserHandler
	MessageHandler *handler.MessageHandler
	Sessions       *authmw.Sessions
	UserRepo       repository.UserRepository
}

// NewRouter wires all routes. Every request resolves its session into an
// AuthContext first; routes behind RequireAuth never see anonymous requests.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(authmw.CurrentUser(cfg.Sessions, cfg.UserRepo))

	// Public routes.
	r.Get("/", cfg.HomeHandler.Home)
	r.Get("/signup", cfg.AuthHandler.SignupForm)
	r.Post("/signup", cfg.AuthHandler.Signup)
	r.Get("/login", cfg.AuthHandler.LoginForm)
	r.Post("/login", cfg.AuthHandler.Login)
	r.Get("/users", cfg.UserHandler.Index)
	r.Get("/users/{id}", cfg.UserHandler.Show)

	// Session-gated routes.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(cfg.Sessions))

		r.Get("/logout", cfg.AuthHandler.Logout)

		r.Get("/users/profile", cfg.UserHandler.EditForm)
		r.Post("/users/profile", cfg.UserHandler.Edit)
		r.Post("/users/delete", cfg.UserHandler.Delete)
		r.Get("/users/{id}/following", cfg.UserHandler.Following)
		r.Get("/users/{id}/followers", cfg.UserHandler.Followers)
		r.Get("/users/{id}/likes", cfg.UserHandler.Likes)
		r.Post("/users/follow/{id}", cfg.UserHandler.Follow)
		r.Post("/users/stop-following/{id}", cfg.UserHandler.StopFollowing)

		r.Post("/messages/new", cfg.MessageHandler.New)
		r.Get("/messages/{id}", cfg.MessageHandler.Show)
		r.Post("/messages/{id}/delete", cfg.MessageHandler.Delete)
		r.Post("/messages/{id}/like", cfg.MessageHandler.ToggleLike)
	})

	return r
}
