package session

import (
	"bytes"
	"context"
	"log/slog"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/dmitrymomot/plugsession/pkg/logger"
)

// MemoryBackend keeps records in process memory. Records are lost on restart
// and are not shared between processes.
type MemoryBackend struct {
	records cmap.ConcurrentMap[string, []byte]
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend(log *slog.Logger) *MemoryBackend {
	if log != nil {
		log.Warn("memory session backend is not durable, sessions are lost on restart",
			logger.Backend("memory"),
			logger.Component("session"),
		)
	}
	return &MemoryBackend{records: cmap.New[[]byte]()}
}

func (b *MemoryBackend) Load(_ context.Context, id string) ([]byte, error) {
	data, ok := b.records.Get(id)
	if !ok {
		return nil, nil
	}
	return bytes.Clone(data), nil
}

func (b *MemoryBackend) Dump(_ context.Context, id string, data []byte) error {
	b.records.Set(id, bytes.Clone(data))
	return nil
}

func (b *MemoryBackend) Clear(_ context.Context, id string) error {
	b.records.Remove(id)
	return nil
}

// Len returns the number of stored records.
func (b *MemoryBackend) Len() int {
	return b.records.Count()
}
