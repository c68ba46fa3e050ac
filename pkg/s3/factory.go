package s3

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

	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewBackend(client, cfg.Bucket, WithPrefix(cfg.Prefix), WithTimeout(cfg.Timeout))
}
