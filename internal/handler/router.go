package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the full route table.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // access log
	r.Use(h.Authenticate)          // session -> current user

	// Health
	r.Get("/health", HealthCheck)

	// Stored event images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(h.uploadDir)))))

	// Public pages
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Get("/user/{username}", h.PublicProfile)

	// Signed-in pages
	r.Group(func(r chi.Router) {
		r.Use(h.RequireUser)

		r.Get("/", h.Home)
		r.Get("/profil", h.Profile)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/add", h.NewEventForm)
			r.Post("/add", h.CreateEvent)
			r.Get("/{id:[0-9]+}", h.GetEvent)
			r.Get("/{id:[0-9]+}/edit", h.EditEventForm)
			r.Post("/{id:[0-9]+}/edit", h.UpdateEvent)
			r.Get("/{id:[0-9]+}/delete", h.DeleteEvent)
			r.Get("/{id:[0-9]+}/register", h.RegisterForEvent)
		})
	})

	// Admin pages
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireAdmin)

		r.Get("/users", h.ListUsers)
		r.Get("/users/{id:[0-9]+}/edit", h.EditUserForm)
		r.Post("/users/{id:[0-9]+}/edit", h.UpdateUser)
		r.Get("/users/{id:[0-9]+}/delete", h.DeleteUser)
		r.Get("/events", h.ListAllEvents)
	})

	return r
}

// noListing hides directory indexes from the file server.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
