package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/plugsession/pkg/cookie"
	"github.com/dmitrymomot/plugsession/pkg/logger"
)

// internalSuffix separates the record-signing key from the cookie key.
const internalSuffix = "_internal_use"

// Manager opens sessions for incoming requests and persists them when the
// request completes.
type Manager struct {
	config     Config
	backend    Backend
	serializer Serializer
	codec      *CookieCodec
	logger     *slog.Logger
	now        func() time.Time

	// edits from field options, applied over the WithConfig base
	edits []func(*Config)
}

// New creates a session manager. WithConfig must supply at least a secret.
// Without WithBackend a private MemoryBackend is used.
//
// WithConfig sets the base configuration regardless of its position: field
// options such as WithTimeout or WithCookieName are always applied on top
// of it, in the order given.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}
	for _, edit := range m.edits {
		edit(&m.config)
	}
	m.edits = nil

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	cookies, err := cookie.NewFromConfig(m.config.cookieConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	secrets := cookie.SplitSecrets(m.config.Secret)
	internal := make([]string, len(secrets))
	for i, s := range secrets {
		internal[i] = s + internalSuffix
	}
	recordSigner, err := cookie.NewSigner(internal, m.config.Salt+internalSuffix, m.config.HashAlg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if m.serializer == nil {
		m.serializer = JSONSerializer{}
	}
	m.serializer = signedSerializer{signer: recordSigner, inner: m.serializer}

	if m.backend == nil {
		m.backend = NewMemoryBackend(m.logger)
	}

	m.codec = NewCookieCodec(cookies, m.config.CookieName, m.config.Domains...)

	return m, nil
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Backend returns the storage backend.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Codec returns the cookie codec.
func (m *Manager) Codec() *CookieCodec {
	return m.codec
}

// Open loads the session referenced by the request cookie, or starts a new
// one. The request must have passed through Middleware; sessions are saved
// by its completion hook. Storage and decoding problems never fail Open:
// they degrade to a fresh session and are logged.
func (m *Manager) Open(r *http.Request) (*Session, error) {
	lc, ok := LifecycleFromContext(r.Context())
	if !ok {
		return nil, ErrNoLifecycle
	}

	ctx := r.Context()
	now := m.now()
	s := &Session{
		manager:  m,
		lc:       lc,
		created:  now,
		renewed:  now,
		accessed: now,
		isNew:    true,
		state:    make(map[string]any),
	}

	id, ok := m.codec.Bind(r)
	if ok {
		id = m.restore(ctx, s, id)
	}

	if m.config.expires() && now.Sub(s.renewed) > m.config.Timeout {
		s.state = make(map[string]any)
	}

	if id == "" {
		id = NewIdentifier()
	}
	s.id = id

	return s, nil
}

// restore fills s from the backend record of id and returns the identifier
// to keep, or "" when a new one must be generated.
func (m *Manager) restore(ctx context.Context, s *Session, id string) string {
	data, err := m.backend.Load(ctx, id)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load session record",
			logger.SessionID(id),
			logger.Error(err),
			logger.Component("session"),
		)
		return ""
	}
	if len(data) == 0 {
		return ""
	}

	rec, err := DecodeRecord(m.serializer, data)
	switch {
	case errors.Is(err, ErrDecode):
		m.logger.LogAttrs(ctx, slog.LevelDebug, "discarding undecodable session record",
			logger.SessionID(id),
			logger.Error(err),
			logger.Component("session"),
		)
		return ""
	case err != nil:
		m.logger.LogAttrs(ctx, slog.LevelDebug, "discarding malformed session state",
			logger.SessionID(id),
			logger.Error(err),
			logger.Component("session"),
		)
		return id
	}

	s.renewed = rec.Renewed
	s.accessed = rec.Renewed
	s.created = rec.Created
	s.state = rec.State
	s.isNew = false
	return id
}

// DecodeRecord verifies and decodes a record read from the backend.
func (m *Manager) DecodeRecord(data []byte) (Record, error) {
	return DecodeRecord(m.serializer, data)
}

// EncodeRecord encodes and signs a record for the backend.
func (m *Manager) EncodeRecord(r Record) ([]byte, error) {
	return EncodeRecord(m.serializer, r)
}

// save runs from the completion hook.
func (m *Manager) save(w http.ResponseWriter, r *http.Request, s *Session) {
	ctx := context.WithoutCancel(r.Context())

	if err := s.lc.Err(); err != nil && !m.config.SetOnException {
		m.logger.LogAttrs(ctx, slog.LevelDebug, "skipping session save for failed request",
			logger.SessionID(s.ID()),
			logger.Error(err),
			logger.Component("session"),
		)
		return
	}

	s.mu.Lock()
	id := s.id
	destroyed := s.destroyed
	rec := Record{Renewed: s.accessed, Created: s.created, State: s.state}
	data, err := EncodeRecord(m.serializer, rec)
	s.mu.Unlock()

	if destroyed {
		m.codec.Expire(w)
		return
	}

	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelError, "failed to encode session",
			logger.SessionID(id),
			logger.Error(err),
			logger.Component("session"),
		)
		return
	}

	if err := m.backend.Dump(ctx, id, data); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist session, continuing without it",
			logger.SessionID(id),
			logger.Error(err),
			logger.Component("session"),
		)
	}

	m.codec.SetCookies(w, id)
}
