package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "pypi:requests", []byte(`{"version":"2.31.0"}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "pypi:requests")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"version":"2.31.0"}` {
		t.Errorf("Get data = %s, want stored value", data)
	}

	// Unknown key is a miss, not an error
	_, hit, err = c.Get(ctx, "pypi:unknown")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("unknown key should be a miss")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCache_NoExpiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	// TTL of 0 means entries never expire
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	_, hit, _ := c.Get(ctx, "key")
	if !hit {
		t.Error("entry with zero TTL should not expire")
	}
}

func TestFileCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "key", []byte("value"), time.Hour)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	_, hit, _ := c.Get(ctx, "key")
	if hit {
		t.Error("deleted entry should be a miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key error: %v", err)
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	_ = c.Set(ctx, "key", []byte("value"), time.Hour)

	// Corrupt the stored file
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("key"), []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should be a miss")
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	_ = c.Set(ctx, "key1", []byte("a"), time.Hour)
	_ = c.Set(ctx, "key2", []byte("b"), time.Hour)

	if err := c.(*FileCache).Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	for _, key := range []string{"key1", "key2"} {
		if _, hit, _ := c.Get(ctx, key); hit {
			t.Errorf("key %q should be gone after Clear", key)
		}
	}

	// Directory itself survives
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should still exist: %v", err)
	}
}

func TestFileCache_PathSharding(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	fc := c.(*FileCache)

	path := fc.path("some-key")
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		t.Fatalf("Rel error: %v", err)
	}

	// First path element is the 2-char shard directory
	subdir := filepath.Dir(rel)
	if len(subdir) != 2 {
		t.Errorf("shard dir = %q, want 2 characters", subdir)
	}
	if filepath.Ext(rel) != ".json" {
		t.Errorf("entry extension = %q, want .json", filepath.Ext(rel))
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	backend, _ := NewFileCache(t.TempDir())
	pypi := NewScoped(backend, "pypi:")
	graphs := NewScoped(backend, "graph:")

	_ = pypi.Set(ctx, "requests", []byte("pypi-data"), time.Hour)
	_ = graphs.Set(ctx, "requests", []byte("graph-data"), time.Hour)

	// Same key, different scopes
	data, hit, _ := pypi.Get(ctx, "requests")
	if !hit || string(data) != "pypi-data" {
		t.Errorf("pypi scope Get = %s, %v; want pypi-data, true", data, hit)
	}
	data, hit, _ = graphs.Get(ctx, "requests")
	if !hit || string(data) != "graph-data" {
		t.Errorf("graph scope Get = %s, %v; want graph-data, true", data, hit)
	}

	// Prefixed key visible on the backend
	if _, hit, _ := backend.Get(ctx, "pypi:requests"); !hit {
		t.Error("backend should see prefixed key")
	}

	// Closing a scope leaves the backend usable
	_ = pypi.Close()
	if _, hit, _ := backend.Get(ctx, "graph:requests"); !hit {
		t.Error("backend should survive scope Close")
	}
}

func TestScoped_NilInner(t *testing.T) {
	// Nil inner falls back to NullCache
	s := NewScoped(nil, "prefix:")
	_, hit, err := s.Get(context.Background(), "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("nil inner should behave like NullCache")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestKey(t *testing.T) {
	// Same parts produce the same key
	k1 := Key("graph", "requirements.txt", "svg")
	k2 := Key("graph", "requirements.txt", "svg")
	if k1 != k2 {
		t.Error("Key should be deterministic")
	}

	// Different parts produce different keys
	k3 := Key("graph", "requirements.txt", "png")
	if k1 == k3 {
		t.Error("Different parts should produce different keys")
	}

	// Prefix is preserved for scoping
	if k1[:6] != "graph:" {
		t.Errorf("Key should start with prefix, got %s", k1)
	}
}
