package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), mr.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	features := []float64{165349.2, 136897.8, 471784.1, 0, 1}

	_, ok, err := c.Get(ctx, "v1", features)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "v1", features, 192261.83))

	got, ok, err := c.Get(ctx, "v1", features)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 192261.83, got)

	_, ok, err = c.Get(ctx, "v2", features)
	require.NoError(t, err)
	assert.False(t, ok, "other model versions must miss")
}

func TestRedisCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	features := []float64{1, 2, 3, 0, 0}

	require.NoError(t, c.Set(ctx, "v1", features, 10))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "v1", features)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(context.Background(), addr, "", 0, time.Minute)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "predict:v1:1.5,2,0,1", Key("v1", []float64{1.5, 2, 0, 1}))
}
