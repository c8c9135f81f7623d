package tokens

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseRegistry(t *testing.T, reg Registry) {
	t.Helper()
	ctx := context.Background()
	token := "token-" + uuid.NewString()

	ok, err := reg.Contains(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok, "unknown token must not be present")

	require.NoError(t, reg.Add(ctx, token, time.Hour))

	ok, err = reg.Contains(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, reg.Revoke(ctx, token))
	ok, err = reg.Contains(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok, "revoked token must be gone")

	assert.NoError(t, reg.Revoke(ctx, token), "revoke must be idempotent")
	assert.NoError(t, reg.Revoke(ctx, "never-added"), "revoking unknown token is not an error")
}

func TestMemoryRegistry(t *testing.T) {
	exerciseRegistry(t, NewMemoryRegistry())
}

func TestMemoryRegistry_KeepsExpiredTokensForGrace(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	require.NoError(t, reg.Add(ctx, "short", time.Minute))
	require.NoError(t, reg.Add(ctx, "zero", 0))

	now = now.Add(2 * time.Minute)

	ok, err := reg.Contains(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok, "entry must outlive the token by the grace period")

	now = now.Add(ExpiryGrace)

	ok, err = reg.Contains(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len(), "expired entry is dropped on lookup")

	ok, err = reg.Contains(ctx, "zero")
	require.NoError(t, err)
	assert.False(t, ok, "zero lifetime still expires after the grace period")
}

func TestMemoryRegistry_Sweep(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, reg.Add(ctx, uuid.NewString(), time.Millisecond))
	}
	require.NoError(t, reg.Add(ctx, "long-lived", 48*time.Hour))

	removed := reg.Sweep(now.Add(time.Minute))
	assert.Equal(t, 0, removed, "nothing is past its grace period yet")

	removed = reg.Sweep(now.Add(ExpiryGrace + time.Second))
	assert.Equal(t, 1000, removed)
	assert.Equal(t, 1, reg.Len())
}

func TestMemoryRegistry_RunStopsOnCancel(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFingerprint(t *testing.T) {
	a := fingerprint("abc")
	assert.Len(t, a, 64)
	assert.Equal(t, a, fingerprint("abc"))
	assert.NotEqual(t, a, fingerprint("abd"))
}

func TestRedisRegistry(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	reg := NewRedisRegistry(client)
	exerciseRegistry(t, reg)

	ctx := context.Background()
	token := uuid.NewString()
	require.NoError(t, reg.Add(ctx, token, time.Minute))
	ttl, err := client.TTL(ctx, reg.key(token)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, time.Minute+ExpiryGrace)
	require.NoError(t, reg.Revoke(ctx, token))
}
