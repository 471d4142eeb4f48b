package handler

import (
	"log"
	"net/http"

	"github.com/Shivanand-hulikatti/eventreg/internal/security"
)

// RegisterForm handles GET /register
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", nil)
}

// Register handles POST /register
// Creates a regular account and sends the visitor to the login page.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err, "/register", "/register")
		return
	}

	_, err := h.accounts.Register(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		h.fail(w, r, err, "/register", "/register")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.register.success", nil)
	redirect(w, r, "/login")
}

// LoginForm handles GET /login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", nil)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err, "/login", "/login")
		return
	}

	u, err := h.accounts.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		h.fail(w, r, err, "/login", "/login")
		return
	}
	if err := h.sessions.Login(w, r, u.ID, u.Username); err != nil {
		h.fail(w, r, err, "/login", "/login")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.login.success", nil)
	redirect(w, r, "/")
}

// Logout handles GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		log.Printf("logout: %v", err)
	}
	h.notify(w, r, security.FlashSuccess, "flash.logout", nil)
	redirect(w, r, "/login")
}
