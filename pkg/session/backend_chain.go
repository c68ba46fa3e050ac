package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/plugsession/pkg/logger"
)

// ChainBackend consults its members in order. Load returns the first hit;
// Dump and Clear go to every member.
type ChainBackend struct {
	members  []Backend
	backfill bool
	logger   *slog.Logger
}

// ChainOption configures a ChainBackend.
type ChainOption func(*ChainBackend)

// WithBackfill copies a record found in a later member into the earlier
// members that missed it.
func WithBackfill() ChainOption {
	return func(c *ChainBackend) {
		c.backfill = true
	}
}

// WithChainLogger sets the logger for member failures.
func WithChainLogger(l *slog.Logger) ChainOption {
	return func(c *ChainBackend) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChainBackend creates a chain over members, fastest first.
func NewChainBackend(members []Backend, opts ...ChainOption) *ChainBackend {
	c := &ChainBackend{
		members: members,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Members returns the chained backends in lookup order.
func (c *ChainBackend) Members() []Backend {
	return c.members
}

// Load never fails: member errors are logged and the member is skipped.
func (c *ChainBackend) Load(ctx context.Context, id string) ([]byte, error) {
	for i, m := range c.members {
		data, err := m.Load(ctx, id)
		if err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "chained backend load failed",
				slog.Int("member", i),
				logger.SessionID(id),
				logger.Error(err),
			)
			continue
		}
		if len(data) == 0 {
			continue
		}
		if c.backfill && i > 0 {
			c.fill(ctx, id, data, c.members[:i])
		}
		return data, nil
	}
	return nil, nil
}

func (c *ChainBackend) fill(ctx context.Context, id string, data []byte, members []Backend) {
	for i, m := range members {
		if err := m.Dump(ctx, id, data); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "chained backend backfill failed",
				slog.Int("member", i),
				logger.SessionID(id),
				logger.Error(err),
			)
		}
	}
}

// Dump writes to every member even when some fail.
func (c *ChainBackend) Dump(ctx context.Context, id string, data []byte) error {
	var errs []error
	for _, m := range c.members {
		if err := m.Dump(ctx, id, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear removes from every member even when some fail.
func (c *ChainBackend) Clear(ctx context.Context, id string) error {
	var errs []error
	for _, m := range c.members {
		if err := m.Clear(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
