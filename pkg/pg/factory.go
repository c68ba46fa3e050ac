package pg

import (
	"context"

	"github.com/dmitrymomot/plugsession/pkg/session"
)

// Factory builds a Backend for the session registry, applying migrations
// first unless auto_migrate is false.
func Factory(ctx context.Context, spec session.BackendSpec, reg *session.Registry) (session.Backend, error) {
	cfg := DefaultConfig()
	if err := session.DecodeOptions(spec.Options, &cfg); err != nil {
		return nil, err
	}

	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(ctx, pool, cfg, reg.Logger()); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return NewBackend(pool), nil
}
