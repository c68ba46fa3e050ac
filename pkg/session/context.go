package session

import (
	"context"
	"net/http"
	"sync"
)

type sessionContextKey struct{}

// lazySession opens the request's session on first use so that requests
// that never touch the session never hit the backend.
type lazySession struct {
	once    sync.Once
	manager *Manager
	r       *http.Request
	session *Session
	err     error
}

func (l *lazySession) get() (*Session, error) {
	l.once.Do(func() {
		l.session, l.err = l.manager.Open(l.r)
	})
	return l.session, l.err
}

// FromContext returns the request's session, opening it on first call.
func FromContext(ctx context.Context) (*Session, bool) {
	l, ok := ctx.Value(sessionContextKey{}).(*lazySession)
	if !ok {
		return nil, false
	}
	s, err := l.get()
	if err != nil {
		return nil, false
	}
	return s, true
}

// MustFromContext retrieves a session from the context or panics
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return s
}

// FromRequest is FromContext for r.Context().
func FromRequest(r *http.Request) (*Session, bool) {
	return FromContext(r.Context())
}
