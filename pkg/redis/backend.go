package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend stores session records as plain Redis strings under a key prefix.
type Backend struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithKeyPrefix sets the key prefix (default "session:").
func WithKeyPrefix(prefix string) BackendOption {
	return func(b *Backend) {
		b.prefix = prefix
	}
}

// WithTTL lets Redis expire records that have not been written for ttl.
func WithTTL(ttl time.Duration) BackendOption {
	return func(b *Backend) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// NewBackend creates a session backend over client.
func NewBackend(client redis.UniversalClient, opts ...BackendOption) *Backend {
	b := &Backend{
		client: client,
		prefix: "session:",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) key(id string) string {
	return b.prefix + id
}

// Load maps redis.Nil to a missing record.
func (b *Backend) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (b *Backend) Dump(ctx context.Context, id string, data []byte) error {
	if err := b.client.Set(ctx, b.key(id), data, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *Backend) Clear(ctx context.Context, id string) error {
	if err := b.client.Del(ctx, b.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Client returns the underlying Redis client.
func (b *Backend) Client() redis.UniversalClient {
	return b.client
}
