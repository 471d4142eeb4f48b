package security

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const (
	sessionName   = "eventreg_session"
	keyUserID     = "user_id"
	keyUsername   = "username"
	sessionMaxAge = 7 * 24 * 60 * 60
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Flash{})
}

// SessionStore wraps a signed and encrypted cookie store. It only remembers
// who the user is; privileges are always read from storage.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore builds a cookie store keyed by secret.
func NewSessionStore(secret string, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

func (s *SessionStore) session(r *http.Request) *sessions.Session {
	// A cookie that fails to decode still yields a fresh, usable session.
	sess, _ := s.store.Get(r, sessionName)
	return sess
}

// Identity returns the user id and username stored in the session.
func (s *SessionStore) Identity(r *http.Request) (int64, string, bool) {
	sess := s.session(r)
	id, ok := sess.Values[keyUserID].(int64)
	if !ok || id <= 0 {
		return 0, "", false
	}
	username, _ := sess.Values[keyUsername].(string)
	return id, username, true
}

// Login records the authenticated user in the session.
func (s *SessionStore) Login(w http.ResponseWriter, r *http.Request, userID int64, username string) error {
	sess := s.session(r)
	sess.Values[keyUserID] = userID
	sess.Values[keyUsername] = username
	return sess.Save(r, w)
}

// Clear forgets the user but keeps pending flashes.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	delete(sess.Values, keyUserID)
	delete(sess.Values, keyUsername)
	return sess.Save(r, w)
}

// AddFlash queues a notice for the next page.
func (s *SessionStore) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error {
	sess := s.session(r)
	sess.AddFlash(Flash{Kind: kind, Message: message})
	return sess.Save(r, w)
}

// Flashes drains queued notices.
func (s *SessionStore) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out, sess.Save(r, w)
}
