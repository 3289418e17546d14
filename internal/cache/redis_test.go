package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hauwenw/ping-parking/internal/storage"
)

func newTestTokens(t *testing.T) (*Tokens, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTokens(client), mr
}

func TestTokens_PutGetDelete(t *testing.T) {
	tokens, mr := newTestTokens(t)
	ctx := context.Background()

	require.NoError(t, tokens.Put(ctx, "k1", "jwt-1", time.Hour))
	assert.True(t, mr.Exists("console:token:k1"))

	got, err := tokens.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", got)

	require.NoError(t, tokens.Delete(ctx, "k1"))
	_, err = tokens.Get(ctx, "k1")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestTokens_Expiry(t *testing.T) {
	tokens, mr := newTestTokens(t)
	ctx := context.Background()

	require.NoError(t, tokens.Put(ctx, "k2", "jwt-2", 24*time.Hour))
	assert.Equal(t, 24*time.Hour, mr.TTL("console:token:k2"))

	mr.FastForward(25 * time.Hour)

	_, err := tokens.Get(ctx, "k2")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}
