package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache with a key prefix so multiple consumers can share
// one backend without colliding.
//
// Example usage:
//
//	backend, _ := NewFileCache(dir)
//	pypi := NewScoped(backend, "pypi:")
//	graphs := NewScoped(backend, "graph:")
//	pypi.Set(ctx, "requests", data, ttl)  // stored under "pypi:requests"
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a scoped view of inner with the given prefix.
// The prefix is prepended to all keys.
func NewScoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a value under the prefixed key.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a value under the prefixed key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes the value under the prefixed key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close is a no-op: scoped views share the inner backend, which is
// closed by whoever created it.
func (s *Scoped) Close() error {
	return nil
}

// Ensure Scoped implements Cache.
var _ Cache = (*Scoped)(nil)
