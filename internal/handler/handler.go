// Package handler contains chi HTTP handlers that translate form posts and
// page requests to and from the service layer.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/eventreg/internal/i18n"
	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/security"
	"github.com/Shivanand-hulikatti/eventreg/internal/service"
)

// defaultMaxUploadBytes caps request bodies when Deps leaves it unset.
const defaultMaxUploadBytes = 10 << 20

// Deps lists what the handlers need.
type Deps struct {
	Accounts       *service.AccountService
	Events         *service.EventService
	Registrations  *service.RegistrationService
	Sessions       *security.SessionStore
	Translator     *i18n.Translator
	Renderer       Renderer
	UploadDir      string
	MaxUploadBytes int64
}

// Handler holds all HTTP handlers for the web application.
type Handler struct {
	accounts       *service.AccountService
	events         *service.EventService
	registrations  *service.RegistrationService
	sessions       *security.SessionStore
	i18n           *i18n.Translator
	renderer       Renderer
	uploadDir      string
	maxUploadBytes int64
}

// New constructs a Handler. A nil Renderer falls back to JSONRenderer.
func New(d Deps) *Handler {
	h := &Handler{
		accounts:       d.Accounts,
		events:         d.Events,
		registrations:  d.Registrations,
		sessions:       d.Sessions,
		i18n:           d.Translator,
		renderer:       d.Renderer,
		uploadDir:      d.UploadDir,
		maxUploadBytes: d.MaxUploadBytes,
	}
	if h.renderer == nil {
		h.renderer = JSONRenderer{}
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = defaultMaxUploadBytes
	}
	return h
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

// writeJSON encodes v before touching the response, so an encoding failure
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// redirect always uses 303 so a POST is followed by a GET.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func eventPath(id int64) string {
	return "/events/" + strconv.FormatInt(id, 10)
}

func userEditPath(id int64) string {
	return "/admin/users/" + strconv.FormatInt(id, 10) + "/edit"
}

// notify queues a localized flash notice for the next page.
func (h *Handler) notify(w http.ResponseWriter, r *http.Request, kind, key string, data map[string]any) {
	msg := h.i18n.T(h.i18n.Locale(r), key, data)
	if err := h.sessions.AddFlash(w, r, kind, msg); err != nil {
		log.Printf("flash %s: %v", key, err)
	}
}

// render drains pending flashes and writes the named view.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	flashes, err := h.sessions.Flashes(w, r)
	if err != nil {
		log.Printf("read flashes: %v", err)
	}
	view := View{
		Name:    name,
		User:    currentUser(r),
		Flashes: flashes,
		Data:    data,
	}
	if err := h.renderer.Render(w, http.StatusOK, view); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

// fail turns a service error into a flash notice and a redirect. Missing
// resources go to missing, everything else goes back.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, back, missing string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		h.notify(w, r, security.FlashError, "flash.validation", map[string]any{
			"Field":  verr.Field,
			"Reason": verr.Reason,
		})
	case errors.Is(err, model.ErrNotFound):
		h.notify(w, r, security.FlashError, "flash.not_found", nil)
		back = missing
	case errors.Is(err, model.ErrPermissionDenied):
		h.notify(w, r, security.FlashError, "flash.permission_denied", nil)
	case errors.Is(err, model.ErrDuplicateUsername):
		h.notify(w, r, security.FlashError, "flash.register.duplicate", nil)
	case errors.Is(err, model.ErrAlreadyRegistered):
		h.notify(w, r, security.FlashError, "flash.registration.duplicate", nil)
	case errors.Is(err, model.ErrAuthFailure):
		h.notify(w, r, security.FlashError, "flash.login.failed", nil)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		h.notify(w, r, security.FlashError, "flash.error", nil)
	}
	redirect(w, r, back)
}

// serverError answers a page that has nowhere sensible to redirect to.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, h.i18n.T(h.i18n.Locale(r), "flash.error", nil), http.StatusInternalServerError)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
