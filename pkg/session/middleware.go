package session

import (
	"context"
	"fmt"
	"net/http"
)

// Middleware installs the request Lifecycle and a lazily opened session.
// Pending session saves run before the first byte of the response is
// written, or once next returns or panics.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lc := newLifecycle(w, nil)
		lazy := &lazySession{manager: m}

		ctx := context.WithValue(r.Context(), lifecycleContextKey{}, lc)
		ctx = context.WithValue(ctx, sessionContextKey{}, lazy)
		r = r.WithContext(ctx)
		lc.r = r
		lazy.r = r

		defer func() {
			if rec := recover(); rec != nil {
				lc.Fail(fmt.Errorf("%w: %v", ErrPanic, rec))
				lc.complete()
				panic(rec)
			}
			lc.complete()
		}()

		next.ServeHTTP(&responseWriter{ResponseWriter: w, lc: lc}, r)
	})
}
