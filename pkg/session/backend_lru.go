package session

import (
	"bytes"
	"container/list"
	"context"
	"fmt"
	"sync"
)

type lruEntry struct {
	id   string
	data []byte
}

// LRUBackend is a bounded in-memory tier. When full, the least recently
// used record is evicted. It is meant to front a slower backend in a chain.
type LRUBackend struct {
	capacity int
	items    map[string]*list.Element
	eviction *list.List
	mu       sync.Mutex
}

// NewLRUBackend creates an LRU tier holding at most capacity records.
func NewLRUBackend(capacity int) (*LRUBackend, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: lru capacity must be positive, got %d", ErrConfiguration, capacity)
	}
	return &LRUBackend{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}, nil
}

func (b *LRUBackend) Load(_ context.Context, id string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	elem, ok := b.items[id]
	if !ok {
		return nil, nil
	}
	b.eviction.MoveToFront(elem)
	return bytes.Clone(elem.Value.(*lruEntry).data), nil
}

func (b *LRUBackend) Dump(_ context.Context, id string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if elem, ok := b.items[id]; ok {
		b.eviction.MoveToFront(elem)
		elem.Value.(*lruEntry).data = bytes.Clone(data)
		return nil
	}

	b.items[id] = b.eviction.PushFront(&lruEntry{id: id, data: bytes.Clone(data)})
	if b.eviction.Len() > b.capacity {
		b.removeElement(b.eviction.Back())
	}
	return nil
}

func (b *LRUBackend) Clear(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if elem, ok := b.items[id]; ok {
		b.removeElement(elem)
	}
	return nil
}

// Len returns the number of cached records.
func (b *LRUBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eviction.Len()
}

// Must be called with lock held.
func (b *LRUBackend) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	b.eviction.Remove(elem)
	delete(b.items, elem.Value.(*lruEntry).id)
}
