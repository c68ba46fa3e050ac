package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/plugsession/pkg/session"
)

const testSecret = "a-test-secret-that-is-long-enough-0123"

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingBackend wraps a MemoryBackend and counts calls.
type countingBackend struct {
	*session.MemoryBackend
	loads, dumps, clears atomic.Int32
}

func newCountingBackend() *countingBackend {
	return &countingBackend{MemoryBackend: session.NewMemoryBackend(nil)}
}

func (b *countingBackend) Load(ctx context.Context, id string) ([]byte, error) {
	b.loads.Add(1)
	return b.MemoryBackend.Load(ctx, id)
}

func (b *countingBackend) Dump(ctx context.Context, id string, data []byte) error {
	b.dumps.Add(1)
	return b.MemoryBackend.Dump(ctx, id, data)
}

func (b *countingBackend) Clear(ctx context.Context, id string) error {
	b.clears.Add(1)
	return b.MemoryBackend.Clear(ctx, id)
}

func testConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Secret = testSecret
	return cfg
}

func newManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()
	m, err := session.New(append([]session.Option{session.WithConfig(testConfig())}, opts...)...)
	require.NoError(t, err)
	return m
}

// serve runs fn inside the session middleware and returns the recorder.
func serve(t *testing.T, m *session.Manager, fn func(w http.ResponseWriter, r *http.Request), cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(fn)).ServeHTTP(rec, req)
	return rec
}

// withSession runs fn with the request's session and answers 200.
func withSession(t *testing.T, m *session.Manager, fn func(s *session.Session), cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, m, func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromRequest(r)
		require.True(t, ok)
		fn(s)
		w.WriteHeader(http.StatusOK)
	}, cookies...)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// cookieFor returns a valid signed cookie for id.
func cookieFor(t *testing.T, m *session.Manager, id string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Codec().SetCookies(rec, id)
	c := sessionCookie(t, rec, m.Codec().Name())
	require.NotNil(t, c)
	return c
}
