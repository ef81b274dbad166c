package external

import (
	"context"
	"testing"
	"time"

	"climacast.app/internal/config"
	"climacast.app/pkg/errors"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisProvider(t *testing.T) (*RedisCacheProvider, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	provider, err := NewRedisCacheProvider(&config.RedisConfig{
		Addr:         server.Addr(),
		DialTimeout:  1,
		ReadTimeout:  1,
		WriteTimeout: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })

	return provider, server
}

func TestRedisCacheProvider_SetGet(t *testing.T) {
	provider, _ := newRedisProvider(t)
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "kyiv#daily#1d", []byte("payload"), time.Hour))

	data, err := provider.Get(ctx, "kyiv#daily#1d")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestRedisCacheProvider_MissIsNotFound(t *testing.T) {
	provider, _ := newRedisProvider(t)

	_, err := provider.Get(context.Background(), "missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRedisCacheProvider_TTLExpiry(t *testing.T) {
	provider, server := newRedisProvider(t)
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "key", []byte("value"), time.Minute))

	server.FastForward(2 * time.Minute)

	_, err := provider.Get(ctx, "key")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRedisCacheProvider_DeleteAndExists(t *testing.T) {
	provider, _ := newRedisProvider(t)
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "key", []byte("value"), time.Hour))

	exists, err := provider.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, provider.Delete(ctx, "key"))

	exists, err = provider.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCacheProvider_Validation(t *testing.T) {
	provider, _ := newRedisProvider(t)
	ctx := context.Background()

	_, err := provider.Get(ctx, "")
	assert.True(t, errors.IsValidationError(err))

	assert.True(t, errors.IsValidationError(provider.Set(ctx, "k", []byte("v"), 0)))
}

func TestRedisCacheProvider_Ping(t *testing.T) {
	provider, server := newRedisProvider(t)

	assert.NoError(t, provider.Ping(context.Background()))

	server.Close()
	assert.Error(t, provider.Ping(context.Background()))
}

func TestNewRedisCacheProvider_NilConfig(t *testing.T) {
	_, err := NewRedisCacheProvider(nil)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestNewRedisCacheProvider_Unreachable(t *testing.T) {
	_, err := NewRedisCacheProvider(&config.RedisConfig{
		Addr:         "localhost:1",
		DialTimeout:  1,
		ReadTimeout:  1,
		WriteTimeout: 1,
	})
	assert.True(t, errors.IsUpstreamError(err))
}
