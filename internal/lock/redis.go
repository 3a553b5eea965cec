package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the lock only if we still own it.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLock is a Locker shared by every API instance. The TTL bounds how
// long a crashed holder can keep a key.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

func NewRedisLock(client *redis.Client, ttl, wait time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &RedisLock{
		client: client,
		ttl:    ttl,
		wait:   wait,
		poll:   25 * time.Millisecond,
	}
}

func (r *RedisLock) Acquire(ctx context.Context, key string) (func(), error) {
	const op = "lock.RedisLock.Acquire"

	lockKey := fmt.Sprintf("lock:%s", key)
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(waitCtx, lockKey, token, r.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return nil, fmt.Errorf("%s: %w", op, ErrLockTimeout)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			return func() { r.release(lockKey, token) }, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%s: %w", op, ErrLockTimeout)
		case <-ticker.C:
		}
	}
}

func (r *RedisLock) release(lockKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = releaseScript.Run(ctx, r.client, []string{lockKey}, token).Err()
}
