package mongo

import (
	"context"

	"github.com/dmitrymomot/plugsession/pkg/session"
)

// Factory builds a Backend for the session registry.
func Factory(ctx context.Context, spec session.BackendSpec, _ *session.Registry) (session.Backend, error) {
	cfg := DefaultConfig()
	if err := session.DecodeOptions(spec.Options, &cfg); err != nil {
		return nil, err
	}

	coll, err := NewCollection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := EnsureTTLIndex(ctx, coll, cfg.TTL); err != nil {
		return nil, err
	}
	return NewBackend(coll), nil
}
