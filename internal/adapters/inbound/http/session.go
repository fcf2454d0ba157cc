package httpin

import (
	"crypto/rand"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionCookie = "admin_console"
	sessionKey    = "sid"
)

// SessionManager keeps the dashboard session id in a signed cookie.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager signs cookies with secret; an empty secret gets a random
// per-process key, which is fine because views only live in memory anyway.
func NewSessionManager(secret []byte, secure bool) (*SessionManager, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
	}
	st := sessions.NewCookieStore(secret)
	st.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: st}, nil
}

func (m *SessionManager) ID(r *http.Request) string {
	s, err := m.store.Get(r, sessionCookie)
	if err != nil {
		return ""
	}
	id, _ := s.Values[sessionKey].(string)
	return id
}

func (m *SessionManager) Save(w http.ResponseWriter, r *http.Request, id string) error {
	// Get returns a fresh session when the cookie is invalid.
	s, _ := m.store.Get(r, sessionCookie)
	s.Values[sessionKey] = id
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionCookie)
	delete(s.Values, sessionKey)
	s.Options.MaxAge = -1
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
