package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "pypi:flask", []byte(`{"version":"3.0.0"}`), time.Hour))

	data, hit, err := c.Get(ctx, "pypi:flask")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, `{"version":"3.0.0"}`, string(data))

	// Unknown key is a miss, not an error
	_, hit, err = c.Get(ctx, "pypi:unknown")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

	// Still there before the TTL elapses
	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, hit)

	mr.FastForward(2 * time.Minute)

	_, hit, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire after TTL")
}

func TestRedisCache_NoExpiration(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))
	mr.FastForward(24 * time.Hour)

	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, hit, "zero TTL should mean no expiration")
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	require.NoError(t, c.Delete(ctx, "key"))

	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)

	// Deleting a missing key is not an error
	assert.NoError(t, c.Delete(ctx, "missing"))
}

func TestNewRedisCache_Errors(t *testing.T) {
	ctx := context.Background()

	// Malformed URL
	_, err := NewRedisCache(ctx, "not-a-url")
	assert.Error(t, err)

	// Unreachable server fails the initial ping
	_, err = NewRedisCache(ctx, "redis://127.0.0.1:1")
	assert.Error(t, err)
}
