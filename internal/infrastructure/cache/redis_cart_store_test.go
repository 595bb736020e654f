package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mall/backend/internal/domain/cart"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartStore(t *testing.T) (*RedisCartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCartStore(client), mr
}

func TestRedisCartStore_SetAndGet(t *testing.T) {
	store, mr := newTestCartStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 42, 1, cart.Entry{Count: 2, Selected: true}))
	require.NoError(t, store.Set(ctx, 42, 2, cart.Entry{Count: 1, Selected: false}))

	assert.Equal(t, "2", mr.HGet("cart_42", "1"))
	members, err := mr.Members("cart_selected_42")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)

	c, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{
		1: {Count: 2, Selected: true},
		2: {Count: 1, Selected: false},
	}, c)

	// Deselecting removes the id from the selected set only.
	require.NoError(t, store.Set(ctx, 42, 1, cart.Entry{Count: 5, Selected: false}))
	c, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, cart.Entry{Count: 5, Selected: false}, c[1])
}

func TestRedisCartStore_Remove(t *testing.T) {
	store, mr := newTestCartStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 42, 1, cart.Entry{Count: 2, Selected: true}))
	require.NoError(t, store.Set(ctx, 42, 2, cart.Entry{Count: 3, Selected: true}))

	require.NoError(t, store.Remove(ctx, 42, 1, 99))

	assert.Empty(t, mr.HGet("cart_42", "1"))
	ok, err := mr.SIsMember("cart_selected_42", "1")
	require.NoError(t, err)
	assert.False(t, ok)

	sel, err := store.Selected(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{2: 3}, sel)
}

func TestRedisCartStore_SelectAll(t *testing.T) {
	store, _ := newTestCartStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 42, 1, cart.Entry{Count: 1, Selected: false}))
	require.NoError(t, store.Set(ctx, 42, 2, cart.Entry{Count: 4, Selected: false}))

	require.NoError(t, store.SelectAll(ctx, 42, true))
	sel, err := store.Selected(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 1, 2: 4}, sel)

	require.NoError(t, store.SelectAll(ctx, 42, false))
	sel, err = store.Selected(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, sel)

	// Empty cart is a no-op.
	require.NoError(t, store.SelectAll(ctx, 7, true))
}

func TestRedisCartStore_Merge(t *testing.T) {
	t.Run("overwrites counts and applies selection", func(t *testing.T) {
		store, _ := newTestCartStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, 42, 1, cart.Entry{Count: 3, Selected: false}))
		require.NoError(t, store.Set(ctx, 42, 2, cart.Entry{Count: 1, Selected: true}))
		require.NoError(t, store.Set(ctx, 42, 5, cart.Entry{Count: 9, Selected: true}))

		anon := cart.Cart{
			1: {Count: 2, Selected: true},
			2: {Count: 7, Selected: false},
			4: {Count: 1, Selected: true},
		}
		require.NoError(t, store.Merge(ctx, 42, anon))

		c, err := store.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, cart.Cart{
			1: {Count: 2, Selected: true},
			2: {Count: 7, Selected: false},
			4: {Count: 1, Selected: true},
			5: {Count: 9, Selected: true},
		}, c)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store, _ := newTestCartStore(t)
		ctx := context.Background()
		anon := cart.Cart{1: {Count: 2, Selected: true}, 3: {Count: 1, Selected: false}}

		require.NoError(t, store.Merge(ctx, 42, anon))
		first, err := store.Get(ctx, 42)
		require.NoError(t, err)

		require.NoError(t, store.Merge(ctx, 42, anon))
		second, err := store.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("empty cart touches nothing", func(t *testing.T) {
		store, mr := newTestCartStore(t)
		mr.SetError("server down")
		assert.NoError(t, store.Merge(context.Background(), 42, cart.New()))
	})

	t.Run("failure applies nothing", func(t *testing.T) {
		store, mr := newTestCartStore(t)
		ctx := context.Background()
		require.NoError(t, store.Set(ctx, 42, 1, cart.Entry{Count: 3, Selected: false}))

		mr.SetError("server down")
		err := store.Merge(ctx, 42, cart.Cart{1: {Count: 2, Selected: true}, 2: {Count: 1, Selected: true}})
		require.Error(t, err)
		mr.SetError("")

		c, err := store.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, cart.Cart{1: {Count: 3, Selected: false}}, c)
	})
}

func TestRedisCartStore_GetSkipsCorruptFields(t *testing.T) {
	store, mr := newTestCartStore(t)
	mr.HSet("cart_42", "1", "2")
	mr.HSet("cart_42", "abc", "2")
	mr.HSet("cart_42", "3", "x")
	mr.HSet("cart_42", "4", "0")

	c, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{1: {Count: 2, Selected: false}}, c)
}
