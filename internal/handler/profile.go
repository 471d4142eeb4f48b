package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
)

// publicUser is what anyone may see about an account.
type publicUser struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile handles GET /profil
// Shows the current user, the events they registered for and the events they organize.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	registered, err := h.registrations.RegisteredEvents(r.Context(), u.ID)
	if err != nil {
		h.fail(w, r, err, "/", "/")
		return
	}
	organized, err := h.events.ListByOwner(r.Context(), u.ID)
	if err != nil {
		h.fail(w, r, err, "/", "/")
		return
	}

	if registered == nil {
		registered = []model.Event{}
	}
	if organized == nil {
		organized = []model.Event{}
	}
	h.render(w, r, "profile", map[string]any{
		"events":    registered,
		"organized": organized,
	})
}

// PublicProfile handles GET /user/{username}
func (h *Handler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err, "/", "/")
		return
	}
	organized, err := h.events.ListByOwner(r.Context(), u.ID)
	if err != nil {
		h.fail(w, r, err, "/", "/")
		return
	}
	if organized == nil {
		organized = []model.Event{}
	}
	h.render(w, r, "user", map[string]any{
		"profile": publicUser{Username: u.Username, CreatedAt: u.CreatedAt},
		"events":  organized,
	})
}
