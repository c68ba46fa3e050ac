package session

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/plugsession/pkg/logger"
)

// Session is the key-value state of one client, valid for a single request.
// Values must survive a JSON round-trip: numbers come back as float64 and
// slices as []any.
type Session struct {
	manager *Manager
	lc      *Lifecycle

	mu        sync.Mutex
	id        string
	created   time.Time
	renewed   time.Time
	accessed  time.Time
	isNew     bool
	dirty     bool
	destroyed bool
	state     map[string]any
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// IsNew reports whether no valid stored state existed for this request.
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isNew
}

// Created returns the time the session was first created.
func (s *Session) Created() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Renewed returns the renewal time loaded with the session.
func (s *Session) Renewed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renewed
}

// Accessed returns the time of the latest access in this request.
func (s *Session) Accessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessed
}

// Dirty reports whether a save is pending for this request.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	v, ok := s.state[key]
	register := s.touch(false)
	s.mu.Unlock()

	s.commit(register)
	return v, ok
}

// GetString returns the string stored under key.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetInt returns the integer stored under key. Whole float64 values, as
// produced by JSON decoding, are accepted.
func (s *Session) GetInt(key string) (int, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// GetBool returns the bool stored under key.
func (s *Session) GetBool(key string) (bool, bool) {
	v, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Has reports whether key is set.
func (s *Session) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns the stored keys, sorted.
func (s *Session) Keys() []string {
	s.mu.Lock()
	keys := slices.Sorted(maps.Keys(s.state))
	register := s.touch(false)
	s.mu.Unlock()

	s.commit(register)
	return keys
}

// Len returns the number of stored keys.
func (s *Session) Len() int {
	s.mu.Lock()
	n := len(s.state)
	register := s.touch(false)
	s.mu.Unlock()

	s.commit(register)
	return n
}

// Values returns a shallow copy of the state.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	values := maps.Clone(s.state)
	register := s.touch(false)
	s.mu.Unlock()

	s.commit(register)
	return values
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.mutate(func(state map[string]any) {
		state[key] = value
	})
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.mutate(func(state map[string]any) {
		delete(state, key)
	})
}

// Pop removes key and returns its previous value.
func (s *Session) Pop(key string) (any, bool) {
	var (
		v  any
		ok bool
	)
	s.mutate(func(state map[string]any) {
		v, ok = state[key]
		delete(state, key)
	})
	return v, ok
}

// SetDefault stores value under key unless key is already set, and returns
// the value now stored.
func (s *Session) SetDefault(key string, value any) any {
	var current any
	s.mutate(func(state map[string]any) {
		if v, ok := state[key]; ok {
			current = v
			return
		}
		state[key] = value
		current = value
	})
	return current
}

// Update copies every entry of values into the session.
func (s *Session) Update(values map[string]any) {
	s.mutate(func(state map[string]any) {
		maps.Copy(state, values)
	})
}

// Clear removes every key.
func (s *Session) Clear() {
	s.mutate(func(state map[string]any) {
		clear(state)
	})
}

// Invalidate empties the session. The stored record is overwritten with the
// empty state at the end of the request, not deleted.
func (s *Session) Invalidate() {
	s.Clear()
}

// Destroy deletes the stored record immediately and expires the client
// cookie when the request completes. A later mutation in the same request
// starts a new session under a fresh identifier, which is then saved and
// sent instead.
func (s *Session) Destroy(ctx context.Context) error {
	var id string
	s.mutate(func(state map[string]any) {
		clear(state)
		s.destroyed = true
		id = s.id
	})
	return s.manager.backend.Clear(ctx, id)
}

// mutate runs fn on the state under lock and schedules the save.
func (s *Session) mutate(fn func(state map[string]any)) {
	s.mu.Lock()
	if s.destroyed {
		s.restart()
	}
	fn(s.state)
	register := s.touch(true)
	s.mu.Unlock()

	s.commit(register)
}

// restart replaces a destroyed session with an empty new one. Callers must
// hold s.mu.
func (s *Session) restart() {
	now := s.manager.now()
	s.id = NewIdentifier()
	s.isNew = true
	s.created = now
	s.renewed = now
	s.destroyed = false
	s.state = make(map[string]any)
}

// touch records an access and reports whether the session just became
// dirty. Callers must hold s.mu.
func (s *Session) touch(mutating bool) bool {
	s.accessed = s.manager.now()

	changed := mutating
	if !changed && s.manager.config.reissues() {
		changed = s.accessed.Sub(s.renewed) >= s.manager.config.ReissueTime
	}
	if !changed || s.dirty {
		return false
	}
	s.dirty = true
	return true
}

// commit registers the single save callback. It must not be called with
// s.mu held.
func (s *Session) commit(register bool) {
	if !register {
		return
	}
	ok := s.lc.OnComplete(func(w http.ResponseWriter, r *http.Request) {
		s.manager.save(w, r, s)
	})
	if !ok {
		s.manager.logger.LogAttrs(context.Background(), slog.LevelWarn,
			"session changed after the response was committed, changes are not persisted",
			logger.SessionID(s.ID()),
			logger.Component("session"),
		)
	}
}
