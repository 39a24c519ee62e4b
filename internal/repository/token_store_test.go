package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenStore(t *testing.T) (*RefreshTokenStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRefreshTokenStore(client), srv
}

func TestRefreshTokenStore_SaveLookupRevoke(t *testing.T) {
	store, srv := newTestTokenStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, "tok", userID, time.Hour))
	assert.True(t, srv.Exists("refresh:tok"))
	assert.Equal(t, time.Hour, srv.TTL("refresh:tok"))

	got, err := store.Lookup(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	require.NoError(t, store.Revoke(ctx, "tok"))
	_, err = store.Lookup(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshTokenStore_Expired(t *testing.T) {
	store, srv := newTestTokenStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok", uuid.New(), time.Minute))
	srv.FastForward(2 * time.Minute)

	_, err := store.Lookup(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshTokenStore_CorruptValue(t *testing.T) {
	store, srv := newTestTokenStore(t)
	require.NoError(t, srv.Set("refresh:tok", "not-a-uuid"))

	_, err := store.Lookup(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
