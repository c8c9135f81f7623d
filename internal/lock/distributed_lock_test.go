package lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestDistributedLock_Exclusive(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	key := "lock-test:" + time.Now().Format("150405.000000")

	first := NewDistributedLock(client, key, 5*time.Second)
	second := NewDistributedLock(client, key, 5*time.Second)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not get the lock")

	assert.ErrorIs(t, second.Release(ctx), ErrLockNotHeld)
	assert.NoError(t, first.Extend(ctx, 10*time.Second))
	assert.NoError(t, first.Release(ctx))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, second.Release(ctx))
}

func TestDistributedLock_Do(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	key := "lock-do:" + time.Now().Format("150405.000000")

	holder := NewDistributedLock(client, key, 5*time.Second)
	ran := false
	err := holder.Do(ctx, func(ctx context.Context) error {
		ran = true
		other := NewDistributedLock(client, key, 5*time.Second)
		err := other.Do(ctx, func(context.Context) error { return nil })
		if !errors.Is(err, ErrLockNotAcquired) {
			t.Errorf("expected ErrLockNotAcquired, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	exists, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "lock key should be released after Do")
}
