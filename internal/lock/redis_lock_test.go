package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, ttl, zaptest.NewLogger(t)), mr
}

func TestRedisLockerExclusive(t *testing.T) {
	locker, mr := newTestLocker(t, time.Minute)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "onur@email.com")
	require.NoError(t, err)
	assert.True(t, mr.Exists(Key("onur@email.com")))

	_, err = locker.Acquire(ctx, "ONUR@email.com")
	assert.ErrorIs(t, err, ErrHeld)

	other, err := locker.Acquire(ctx, "goksu@email.com")
	require.NoError(t, err)
	other()

	release()
	assert.False(t, mr.Exists(Key("onur@email.com")))

	again, err := locker.Acquire(ctx, "onur@email.com")
	require.NoError(t, err)
	again()
}

func TestRedisLockerExpires(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "onur@email.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := locker.Acquire(ctx, "onur@email.com")
	require.NoError(t, err)

	// the expired holder must not delete the new holder's key
	stale()
	assert.True(t, mr.Exists(Key("onur@email.com")))

	fresh()
	assert.False(t, mr.Exists(Key("onur@email.com")))
}

func TestRedisLockerUnavailable(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	mr.Close()

	_, err := locker.Acquire(context.Background(), "onur@email.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHeld)
}

func TestNoop(t *testing.T) {
	release, err := Noop{}.Acquire(context.Background(), "onur@email.com")
	require.NoError(t, err)
	release()
}
