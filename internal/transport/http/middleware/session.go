package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "warbler_session"

	// currUserKey is the session value holding the authenticated user's id.
	// Its absence means the request is anonymous.
	currUserKey = "curr_user"
)

// FlashAccessUnauthorized is the flash shown whenever the authorization
// guard rejects a request.
const FlashAccessUnauthorized = "Access unauthorized."

// Sessions wraps the cookie store behind the handful of operations the
// application needs: the auth marker and flash messages.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret string) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// session fetches the request's session. A cookie that fails to decode
// (tampered, or signed with an old secret) comes back as a fresh session;
// the decode error is deliberately ignored.
func (s *Sessions) session(r *http.Request) *sessions.Session {
	sess, _ := s.store.Get(r, sessionName)
	return sess
}

// Login records userID as the session's authenticated user.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	sess := s.session(r)
	sess.Values[currUserKey] = userID
	return sess.Save(r, w)
}

// Logout drops the auth marker, keeping the rest of the session (flashes).
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	delete(sess.Values, currUserKey)
	return sess.Save(r, w)
}

// UserID returns the session's auth marker, if present.
func (s *Sessions) UserID(r *http.Request) (int64, bool) {
	sess := s.session(r)
	id, ok := sess.Values[currUserKey].(int64)
	return id, ok
}

// Flash queues a message for the next rendered page.
func (s *Sessions) Flash(w http.ResponseWriter, r *http.Request, msg string) {
	sess := s.session(r)
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Flashes drains and returns the queued messages.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
