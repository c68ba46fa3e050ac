package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/plugsession/pkg/session"
)

func TestSessionAccessors(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	rec := withSession(t, m, func(s *session.Session) {
		s.Update(map[string]any{
			"name":   "ada",
			"count":  3,
			"admin":  true,
			"ratio":  0.5,
			"nested": map[string]any{"a": 1},
		})
	})
	c := sessionCookie(t, rec, "session")
	require.NotNil(t, c)

	withSession(t, m, func(s *session.Session) {
		name, ok := s.GetString("name")
		assert.True(t, ok)
		assert.Equal(t, "ada", name)

		count, ok := s.GetInt("count")
		assert.True(t, ok, "whole floats decoded from JSON are ints")
		assert.Equal(t, 3, count)

		_, ok = s.GetInt("ratio")
		assert.False(t, ok)

		admin, ok := s.GetBool("admin")
		assert.True(t, ok)
		assert.True(t, admin)

		_, ok = s.GetString("count")
		assert.False(t, ok, "wrong type")

		_, ok = s.Get("missing")
		assert.False(t, ok)

		assert.True(t, s.Has("nested"))
		assert.Equal(t, 5, s.Len())
		assert.Equal(t, []string{"admin", "count", "name", "nested", "ratio"}, s.Keys())

		values := s.Values()
		values["name"] = "changed"
		still, _ := s.GetString("name")
		assert.Equal(t, "ada", still, "Values returns a copy")
	}, c)
}

func TestSessionMutators(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	withSession(t, m, func(s *session.Session) {
		assert.False(t, s.Dirty())

		s.Set("a", 1)
		assert.True(t, s.Dirty())

		v, ok := s.Pop("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		_, ok = s.Pop("a")
		assert.False(t, ok)

		assert.Equal(t, "first", s.SetDefault("k", "first"))
		assert.Equal(t, "first", s.SetDefault("k", "second"))

		s.Set("x", 1)
		s.Delete("x")
		assert.False(t, s.Has("x"))

		s.Clear()
		assert.Zero(t, s.Len())
	})
}

func TestSessionMetadata(t *testing.T) {
	t.Parallel()
	clk := newClock()
	m := newManager(t, session.WithClock(clk.Now))

	rec := withSession(t, m, func(s *session.Session) {
		assert.Equal(t, clk.Now(), s.Created())
		assert.Equal(t, clk.Now(), s.Renewed())
		s.Set("k", "v")
	})
	c := sessionCookie(t, rec, "session")
	created := clk.Now()

	clk.Advance(30 * time.Second)
	withSession(t, m, func(s *session.Session) {
		assert.WithinDuration(t, created, s.Created(), time.Millisecond)
		_ = s.Has("k")
		assert.Equal(t, clk.Now(), s.Accessed())
		assert.False(t, s.Created().After(s.Renewed()))
	}, c)
}

func TestFlash(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	rec := withSession(t, m, func(s *session.Session) {
		s.Flash("saved")
		s.Flash("saved")
		s.Flash("welcome", session.InQueue("info"))
		s.Flash("welcome", session.InQueue("info"), session.NoDuplicates())

		assert.Equal(t, []string{"saved", "saved"}, s.PeekFlash(""))
	})
	c := sessionCookie(t, rec, "session")
	require.NotNil(t, c)

	withSession(t, m, func(s *session.Session) {
		assert.Equal(t, []string{"welcome"}, s.PeekFlash("info"))
		assert.Equal(t, []string{"welcome"}, s.PopFlash("info"))
		assert.Empty(t, s.PopFlash("info"))
		assert.Equal(t, []string{"saved", "saved"}, s.PopFlash(""))
		assert.Empty(t, s.PeekFlash("missing"))
	}, c)

	withSession(t, m, func(s *session.Session) {
		assert.Empty(t, s.PeekFlash(""))
		assert.Empty(t, s.PeekFlash("info"))
	}, c)
}

func TestCSRFToken(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	var token string
	rec := withSession(t, m, func(s *session.Session) {
		token = s.CSRFToken()
		assert.Len(t, token, 40)
		assert.Equal(t, token, s.CSRFToken(), "stable within a request")
	})
	c := sessionCookie(t, rec, "session")
	require.NotNil(t, c)

	withSession(t, m, func(s *session.Session) {
		assert.Equal(t, token, s.CSRFToken(), "stable across requests")
		assert.True(t, s.ValidCSRFToken(token))
		assert.False(t, s.ValidCSRFToken(""))
		assert.False(t, s.ValidCSRFToken(token[:39]+"x"))

		fresh := s.NewCSRFToken()
		assert.NotEqual(t, token, fresh)
		assert.True(t, s.ValidCSRFToken(fresh))
		assert.False(t, s.ValidCSRFToken(token))
	}, c)
}

func TestValidCSRFTokenWithoutToken(t *testing.T) {
	t.Parallel()
	m := newManager(t, session.WithReissueTime(session.Never))

	withSession(t, m, func(s *session.Session) {
		assert.False(t, s.ValidCSRFToken("anything"))
		assert.False(t, s.Dirty())
	})
}
