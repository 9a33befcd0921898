package store

import (
	"context"
	"errors"
	"sync"

	"github.com/patrickmn/go-cache"
)

// ErrNotFound is returned by Backend.Get when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is durable key/value storage.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes all keys in one atomic operation.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Memory keeps records in process memory only. It backs the "memory" driver
// and is the fallback when the database cannot be opened.
type Memory struct {
	mu    sync.Mutex
	items *cache.Cache
}

func NewMemory() *Memory {
	return &Memory{items: cache.New(cache.NoExpiration, 0)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b := v.([]byte)
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	b := make([]byte, len(value))
	copy(b, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items.Set(key, b, cache.NoExpiration)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.items.Delete(k)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
