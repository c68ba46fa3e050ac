package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithConfig sets the base configuration. Field options are applied on top
// of it whatever their order.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithBackend sets the storage backend
func WithBackend(backend Backend) Option {
	return func(m *Manager) {
		m.backend = backend
	}
}

// WithSerializer replaces the JSON serializer. Records are still signed.
func WithSerializer(s Serializer) Option {
	return func(m *Manager) {
		m.serializer = s
	}
}

// WithLogger sets the logger used for recovered errors
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTimeout sets the inactivity timeout; use Never to disable it
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.edits = append(m.edits, func(c *Config) { c.Timeout = d })
	}
}

// WithReissueTime sets the reissue window; use Never to disable it
func WithReissueTime(d time.Duration) Option {
	return func(m *Manager) {
		m.edits = append(m.edits, func(c *Config) { c.ReissueTime = d })
	}
}

// WithCookieName sets the session cookie name
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.edits = append(m.edits, func(c *Config) { c.CookieName = name })
	}
}

// WithSetOnException controls saving of failed requests
func WithSetOnException(set bool) Option {
	return func(m *Manager) {
		m.edits = append(m.edits, func(c *Config) { c.SetOnException = set })
	}
}
