package redis

import (
	"context"

	"github.com/dmitrymomot/plugsession/pkg/session"
)

// Factory builds a Backend for the session registry. Options use the
// mapstructure names of Config; omitted ones take DefaultConfig values.
func Factory(ctx context.Context, spec session.BackendSpec, _ *session.Registry) (session.Backend, error) {
	cfg := DefaultConfig()
	if err := session.DecodeOptions(spec.Options, &cfg); err != nil {
		return nil, err
	}

	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewBackend(client, WithKeyPrefix(cfg.KeyPrefix), WithTTL(cfg.TTL)), nil
}
