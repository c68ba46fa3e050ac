package session

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"sync"
)

// Lifecycle is the per-request completion hook. Callbacks registered with
// OnComplete run exactly once: right before the final response header is
// written, when the handler returns without writing, or on a panic.
type Lifecycle struct {
	mu        sync.Mutex
	w         http.ResponseWriter
	r         *http.Request
	callbacks []func(http.ResponseWriter, *http.Request)
	completed bool
	err       error
}

type lifecycleContextKey struct{}

func newLifecycle(w http.ResponseWriter, r *http.Request) *Lifecycle {
	return &Lifecycle{w: w, r: r}
}

// LifecycleFromContext returns the request's Lifecycle installed by
// Manager.Middleware.
func LifecycleFromContext(ctx context.Context) (*Lifecycle, bool) {
	lc, ok := ctx.Value(lifecycleContextKey{}).(*Lifecycle)
	return lc, ok
}

// OnComplete registers fn. It returns false when the response has already
// been committed, in which case fn is not registered.
func (l *Lifecycle) OnComplete(fn func(http.ResponseWriter, *http.Request)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.completed {
		return false
	}
	l.callbacks = append(l.callbacks, fn)
	return true
}

// Fail marks the request as failed. The first error wins.
func (l *Lifecycle) Fail(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err == nil {
		l.err = err
	}
}

// Err returns the failure recorded with Fail, if any.
func (l *Lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Completed reports whether callbacks have already run.
func (l *Lifecycle) Completed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.completed
}

func (l *Lifecycle) complete() {
	l.mu.Lock()
	if l.completed {
		l.mu.Unlock()
		return
	}
	l.completed = true
	callbacks := l.callbacks
	l.callbacks = nil
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn(l.w, l.r)
	}
}

// Fail marks the request carried by r as failed so that, with
// SetOnException disabled, its session is not saved.
func Fail(r *http.Request, err error) {
	if lc, ok := LifecycleFromContext(r.Context()); ok {
		lc.Fail(err)
	}
}

// responseWriter fires the lifecycle before anything reaches the client.
type responseWriter struct {
	http.ResponseWriter
	lc *Lifecycle
}

// WriteHeader passes informational responses through untouched: they are
// not the final header.
func (w *responseWriter) WriteHeader(code int) {
	if code < http.StatusOK && code != http.StatusSwitchingProtocols {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	if code >= http.StatusInternalServerError {
		w.lc.Fail(ErrServerError)
	}
	w.lc.complete()
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.lc.complete()
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Flush() {
	w.lc.complete()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack completes the lifecycle before the connection is handed over.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.lc.complete()
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
