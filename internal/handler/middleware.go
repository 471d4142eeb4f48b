package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/policy"
	"github.com/Shivanand-hulikatti/eventreg/internal/requestctx"
	"github.com/Shivanand-hulikatti/eventreg/internal/security"
)

// Logger writes one access log line per request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Printf("[%s] %s %s %d %dB %s",
			chimiddleware.GetReqID(r.Context()), r.Method, r.URL.Path,
			ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

func currentUser(r *http.Request) *model.User {
	return requestctx.UserFromContext(r.Context())
}

// Authenticate resolves the session to a user loaded fresh from storage and
// stores it in the request context. A session whose user has been deleted
// is cleared.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _, ok := h.sessions.Identity(r)
		if ok {
			u, err := h.accounts.GetUser(r.Context(), id)
			switch {
			case err == nil:
				r = r.WithContext(requestctx.WithUser(r.Context(), u))
			case errors.Is(err, model.ErrNotFound):
				if err := h.sessions.Clear(w, r); err != nil {
					log.Printf("clear stale session: %v", err)
				}
			default:
				log.Printf("load session user %d: %v", id, err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser sends anonymous visitors to the login page.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			h.notify(w, r, security.FlashError, "flash.login_required", nil)
			redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets only admins through.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u == nil {
			h.notify(w, r, security.FlashError, "flash.login_required", nil)
			redirect(w, r, "/login")
			return
		}
		if !policy.CanAdminister(u) {
			h.notify(w, r, security.FlashError, "flash.admin_required", nil)
			redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}
