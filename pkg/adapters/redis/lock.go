package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/hostprep/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// ErrLockAcquire is returned when the lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire host lock")

// releaseScript deletes the lock only if we still own it.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// renewScript extends the lock only if we still own it.
const renewScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`

// Locker implements ports.DistributedLocker using Redis SET NX PX.
type Locker struct {
	client   *backend.Client
	prefix   string
	interval time.Duration
	renew    time.Duration
	owner    string
}

var _ ports.DistributedLocker = (*Locker)(nil)

// LockerOption configures a Locker.
type LockerOption func(*Locker)

// WithPollInterval sets how often a blocked Lock retries.
func WithPollInterval(d time.Duration) LockerOption {
	return func(l *Locker) {
		l.interval = d
	}
}

// WithRenewInterval sets how often a held lock has its TTL pushed back.
// Defaults to a third of the TTL passed to Lock.
func WithRenewInterval(d time.Duration) LockerOption {
	return func(l *Locker) {
		l.renew = d
	}
}

// WithOwner tags the lock value so operators can see who holds it.
func WithOwner(owner string) LockerOption {
	return func(l *Locker) {
		l.owner = owner
	}
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string, opts ...LockerOption) *Locker {
	l := &Locker{
		client:   client,
		prefix:   prefix,
		interval: 100 * time.Millisecond,
		owner:    "hostprep",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock blocks until the lock for key is held, ctx ends, or redis fails.
// While held, the TTL is renewed in the background, so ttl only bounds how long
// a crashed holder keeps the host locked. The UnlockFunc stops the renewal.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	val := fmt.Sprintf("%s:%d", l.owner, time.Now().UnixNano())

	acquire := func() (bool, error) {
		ok, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrLockAcquire, err)
		}
		return ok, nil
	}

	if ok, err := acquire(); err != nil || ok {
		if err != nil {
			return nil, err
		}
		return l.hold(lockKey, val, ttl), nil
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			ok, err := acquire()
			if err != nil {
				return nil, err
			}
			if ok {
				return l.hold(lockKey, val, ttl), nil
			}
		}
	}
}

// hold keeps an acquired lock alive until the returned UnlockFunc is called.
func (l *Locker) hold(lockKey, val string, ttl time.Duration) ports.UnlockFunc {
	every := l.renew
	if every <= 0 {
		every = ttl / 3
	}
	if every <= 0 {
		every = l.interval
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// A failed renewal is retried on the next tick; the TTL is the backstop
				_ = l.client.Eval(context.Background(), renewScript, []string{lockKey}, val, ttl.Milliseconds()).Err()
			}
		}
	}()

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() {
			close(stop)
			<-done
		})
		return l.client.Eval(ctx, releaseScript, []string{lockKey}, val).Err()
	}
}
