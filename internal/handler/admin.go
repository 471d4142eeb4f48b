package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/security"
)

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context(), currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err, "/", "/")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	h.render(w, r, "admin_users", map[string]any{"users": users})
}

// EditUserForm handles GET /admin/users/{id}/edit
func (h *Handler) EditUserForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/admin/users", "/admin/users")
		return
	}
	u, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/admin/users", "/admin/users")
		return
	}
	h.render(w, r, "user_form", map[string]any{"user": u})
}

// UpdateUser handles POST /admin/users/{id}/edit
// is_admin follows checkbox semantics: absent means false.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/admin/users", "/admin/users")
		return
	}
	back := userEditPath(id)
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err, back, "/admin/users")
		return
	}

	isAdmin := checkbox(r.PostForm.Get("is_admin"))
	upd := model.UserUpdate{IsAdmin: &isAdmin}
	if r.PostForm.Has("username") {
		name := r.PostForm.Get("username")
		upd.Username = &name
	}

	if _, err := h.accounts.UpdateUser(r.Context(), currentUser(r).ID, id, upd); err != nil {
		h.fail(w, r, err, back, "/admin/users")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.user.updated", nil)
	redirect(w, r, "/admin/users")
}

// DeleteUser handles GET /admin/users/{id}/delete
// Removes the account, its events and every registration touching either.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/admin/users", "/admin/users")
		return
	}

	if err := h.accounts.DeleteUser(r.Context(), currentUser(r).ID, id); err != nil {
		h.fail(w, r, err, "/admin/users", "/admin/users")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.user.deleted", nil)
	redirect(w, r, "/admin/users")
}

// ListAllEvents handles GET /admin/events
func (h *Handler) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "/", "/")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	h.render(w, r, "admin_events", map[string]any{"events": events})
}
