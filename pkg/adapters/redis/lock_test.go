package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hostprep/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, redis.DefaultPrefix, redis.WithOwner("pi-kitchen"))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "pi-kitchen", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, unlock)

	assert.True(t, mr.Exists("hostprep:lock:pi-kitchen"))
	val, err := mr.Get("hostprep:lock:pi-kitchen")
	require.NoError(t, err)
	assert.Contains(t, val, "pi-kitchen:")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("hostprep:lock:pi-kitchen"))
}

func TestLocker_SecondRunBlocksUntilRelease(t *testing.T) {
	_, client := newClient(t)
	first := redis.NewLocker(client, redis.DefaultPrefix)
	second := redis.NewLocker(client, redis.DefaultPrefix, redis.WithPollInterval(20*time.Millisecond))
	ctx := context.Background()

	unlock1, err := first.Lock(ctx, "pi", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = second.Lock(waitCtx, "pi", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := second.Lock(ctx, "pi", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_UnlockDoesNotReleaseForeignLock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, redis.DefaultPrefix)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "pi", time.Second)
	require.NoError(t, err)

	// Lock expired and another run took it over
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("hostprep:lock:pi", "someone-else"))

	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("hostprep:lock:pi"))
}

func TestLocker_RenewsWhileHeld(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, redis.DefaultPrefix, redis.WithRenewInterval(20*time.Millisecond))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "pi", 10*time.Second)
	require.NoError(t, err)

	// Simulate a run that has used up most of its TTL
	mr.SetTTL("hostprep:lock:pi", 500*time.Millisecond)
	require.Eventually(t, func() bool {
		return mr.TTL("hostprep:lock:pi") > 5*time.Second
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("hostprep:lock:pi"))

	// Renewal stopped with the unlock
	require.NoError(t, mr.Set("hostprep:lock:pi", "someone-else"))
	mr.SetTTL("hostprep:lock:pi", time.Second)
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, mr.TTL("hostprep:lock:pi"), time.Second)

	require.NoError(t, unlock(ctx), "unlocking twice is harmless")
}
