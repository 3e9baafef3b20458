package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"obras/internal/metrics"
)

// CookieName is the session cookie. It has no Expires so it dies with the
// browser session.
const CookieName = "obras_session"

type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
	LastSeen  time.Time
}

// Sessions is the registry of live logins. Sessions expire after idle
// without a request; onEnd is called with the id of every session that
// ends, by logout or expiry.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	onEnd    func(id string)
	now      func() time.Time
}

func NewSessions(idle time.Duration, onEnd func(id string)) *Sessions {
	if onEnd == nil {
		onEnd = func(string) {}
	}
	return &Sessions{
		sessions: make(map[string]*Session),
		idle:     idle,
		onEnd:    onEnd,
		now:      time.Now,
	}
}

func (s *Sessions) Create(username string) (Session, error) {
	id, err := newSessionID()
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	sess := &Session{ID: id, Username: username, CreatedAt: now, LastSeen: now}

	s.mu.Lock()
	s.sessions[id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return *sess, nil
}

// Get returns a live session and marks it as used.
func (s *Sessions) Get(id string) (Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Session{}, false
	}
	now := s.now()
	if now.Sub(sess.LastSeen) > s.idle {
		delete(s.sessions, id)
		n := len(s.sessions)
		s.mu.Unlock()
		s.ended(id, n, "expired")
		return Session{}, false
	}
	sess.LastSeen = now
	out := *sess
	s.mu.Unlock()
	return out, true
}

// Delete ends a session. Unknown ids are ignored.
func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	if ok {
		s.ended(id, n, "logout")
	}
}

// CleanExpired ends every idle session. It satisfies cache.Cleaner so the
// cache manager sweeps sessions along with caches.
func (s *Sessions) CleanExpired() int {
	now := s.now()
	var expired []string

	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen) > s.idle {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, id := range expired {
		s.ended(id, n, "expired")
	}
	return len(expired)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) ended(id string, remaining int, reason string) {
	metrics.ActiveSessions.Set(float64(remaining))
	slog.Debug("Session ended", "component", "auth", "reason", reason)
	s.onEnd(id)
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SetCookie writes the session cookie.
func SetCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the session named by the request cookie.
func (s *Sessions) FromRequest(r *http.Request) (Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Session{}, false
	}
	return s.Get(c.Value)
}

type ctxKey struct{}

func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(Session)
	return sess, ok
}
