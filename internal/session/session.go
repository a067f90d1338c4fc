// Package session manages per-browser authentication state.
//
// The browser holds only an opaque token in an HttpOnly cookie; the
// {userID, username} record lives server-side in a gorilla/sessions store.
// That split is what makes logout real: destroying the server-side record
// revokes the session even if a client replays the old cookie value.
package session

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "miniblog_session"
	// sessionMaxAge bounds how long an idle login survives, in seconds.
	sessionMaxAge = 86400 // 24h

	keyUserID   = "userId"
	keyUsername = "username"
)

// Identity is the authentication state carried by a session. The zero value
// is anonymous.
type Identity struct {
	UserID   string
	Username string
}

// IsAuthenticated reports whether this identity belongs to a logged-in
// user. A session with no userID authorizes nothing.
func (id Identity) IsAuthenticated() bool {
	return id.UserID != ""
}

// Manager wraps a sessions.Store with the operations the handlers need.
// Production wiring passes a FilesystemStore; tests may substitute any
// sessions.Store.
type Manager struct {
	store  sessions.Store
	logger *slog.Logger
}

func NewManager(store sessions.Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Current returns the identity attached to the request's session.
//
// A missing, expired, or undecodable cookie is not an error; it is an
// anonymous request. Decode failures are logged at debug because a tampered
// cookie occasionally is worth noticing, but the caller only ever sees the
// anonymous identity.
func (m *Manager) Current(r *http.Request) Identity {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		m.logger.Debug("session decode failed, treating as anonymous",
			slog.String("error", err.Error()),
		)
		return Identity{}
	}

	userID, _ := s.Values[keyUserID].(string)
	username, _ := s.Values[keyUsername].(string)
	return Identity{UserID: userID, Username: username}
}

// Authenticate records the user's identity in the session backing store and
// issues the cookie. Call it only after credential verification succeeded.
func (m *Manager) Authenticate(w http.ResponseWriter, r *http.Request, userID, username string) error {
	// Get returns a fresh session when the request carried none (or an
	// undecodable one); either way we overwrite the values below.
	s, _ := m.store.Get(r, sessionName)
	applyOptions(s)

	s.Values[keyUserID] = userID
	s.Values[keyUsername] = username

	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("session: saving session: %w", err)
	}
	return nil
}

// Destroy clears the server-side record and expires the cookie. Subsequent
// requests presenting the same token are anonymous.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionName)
	applyOptions(s)

	s.Values = make(map[interface{}]interface{})
	// MaxAge -1 tells the store to drop its record and the browser to drop
	// the cookie.
	s.Options.MaxAge = -1

	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("session: destroying session: %w", err)
	}
	return nil
}

func applyOptions(s *sessions.Session) {
	if s.Options == nil {
		s.Options = &sessions.Options{}
	}
	s.Options.Path = "/"
	s.Options.MaxAge = sessionMaxAge
	s.Options.HttpOnly = true
	s.Options.SameSite = http.SameSiteLaxMode
}
