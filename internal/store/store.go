// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"sync"
	"time"

	perrors "plinius-pricer/internal/errors"
)

// KV is an opaque string key-value store. Values are stored and returned
// verbatim; callers own the encoding.
type KV interface {
	// Get returns the value for key. The bool is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// Lifecycle
	Close() error
}

// Entry is a stored value with its last write time.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// MemoryKV is an in-process KV. It backs the "memory" storage driver and
// lets tests simulate a failing backend.
type MemoryKV struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	failWrites bool
	failReads  bool
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]Entry)}
}

// FailWrites makes every subsequent Set and Delete return a storage error.
func (m *MemoryKV) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrites = fail
	m.mu.Unlock()
}

// FailReads makes every subsequent Get return a storage error.
func (m *MemoryKV) FailReads(fail bool) {
	m.mu.Lock()
	m.failReads = fail
	m.mu.Unlock()
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, perrors.NewStorageError("get", key, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failReads {
		return "", false, perrors.NewStorageError("get", key, nil)
	}
	e, ok := m.entries[key]
	return e.Value, ok, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return perrors.NewStorageError("set", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return perrors.NewStorageError("set", key, nil)
	}
	m.entries[key] = Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return perrors.NewStorageError("delete", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return perrors.NewStorageError("delete", key, nil)
	}
	delete(m.entries, key)
	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() error {
	return nil
}
