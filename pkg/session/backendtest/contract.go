// Package backendtest holds the behaviour every session.Backend must share.
package backendtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/plugsession/pkg/session"
)

// Run exercises a fresh backend returned by newBackend in each subtest.
func Run(t *testing.T, newBackend func(t *testing.T) session.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing record is nil without error", func(t *testing.T) {
		b := newBackend(t)
		data, err := b.Load(ctx, session.NewIdentifier())
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("dump then load", func(t *testing.T) {
		b := newBackend(t)
		id := session.NewIdentifier()
		require.NoError(t, b.Dump(ctx, id, []byte("record-1")))

		data, err := b.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("record-1"), data)
	})

	t.Run("dump overwrites", func(t *testing.T) {
		b := newBackend(t)
		id := session.NewIdentifier()
		require.NoError(t, b.Dump(ctx, id, []byte("old record with a longer body")))
		require.NoError(t, b.Dump(ctx, id, []byte("new")))

		data, err := b.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
	})

	t.Run("records are isolated by id", func(t *testing.T) {
		b := newBackend(t)
		a, c := session.NewIdentifier(), session.NewIdentifier()
		require.NoError(t, b.Dump(ctx, a, []byte("a")))
		require.NoError(t, b.Dump(ctx, c, []byte("c")))
		require.NoError(t, b.Clear(ctx, a))

		data, err := b.Load(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, []byte("c"), data)
	})

	t.Run("clear removes", func(t *testing.T) {
		b := newBackend(t)
		id := session.NewIdentifier()
		require.NoError(t, b.Dump(ctx, id, []byte("gone soon")))
		require.NoError(t, b.Clear(ctx, id))

		data, err := b.Load(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("clear of missing record succeeds", func(t *testing.T) {
		b := newBackend(t)
		assert.NoError(t, b.Clear(ctx, session.NewIdentifier()))
	})

	t.Run("stored bytes are not aliased", func(t *testing.T) {
		b := newBackend(t)
		id := session.NewIdentifier()
		in := []byte("original")
		require.NoError(t, b.Dump(ctx, id, in))
		in[0] = 'X'

		out, err := b.Load(ctx, id)
		require.NoError(t, err)
		require.Equal(t, []byte("original"), out)
		out[0] = 'Y'

		again, err := b.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), again)
	})

	t.Run("concurrent use", func(t *testing.T) {
		b := newBackend(t)
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := session.NewIdentifier()
				payload := fmt.Appendf(nil, "payload-%d", i)
				assert.NoError(t, b.Dump(ctx, id, payload))
				data, err := b.Load(ctx, id)
				assert.NoError(t, err)
				assert.Equal(t, payload, data)
				assert.NoError(t, b.Clear(ctx, id))
			}()
		}
		wg.Wait()
	})
}
