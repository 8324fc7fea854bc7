package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still holds our lease
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the key only when it still holds our lease
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker shares leases between processes with SET NX PX.
// A held lease is renewed every TTL/3, so the TTL only bounds how long a
// crashed holder blocks the session.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisLocker) TryAcquire(ctx context.Context, key, operation string) (*Lease, error) {
	lease := &Lease{
		Key:        key,
		Token:      uuid.NewString(),
		Operation:  operation,
		AcquiredAt: time.Now().UTC(),
	}
	b, err := json.Marshal(lease)
	if err != nil {
		return nil, err
	}
	lease.raw = string(b)

	ok, err := r.client.SetNX(ctx, r.prefix+key, lease.raw, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		op := "another operation"
		if held, herr := r.Holder(ctx, key); herr == nil && held != nil {
			op = held.Operation
		}
		return nil, fmt.Errorf("%s is running %s: %w", key, op, ErrHeld)
	}
	lease.stop = keepAlive(r.renewInterval(), func(ctx context.Context) (bool, error) {
		return r.refresh(ctx, lease)
	})
	return lease, nil
}

func (r *RedisLocker) renewInterval() time.Duration {
	if d := r.ttl / 3; d > time.Millisecond {
		return d
	}
	return time.Millisecond
}

// refresh pushes the expiry out by one TTL; false means the lease is gone
func (r *RedisLocker) refresh(ctx context.Context, lease *Lease) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.renewInterval())
	defer cancel()

	n, err := refreshScript.Run(ctx, r.client, []string{r.prefix + lease.Key}, lease.raw, r.ttl.Milliseconds()).Int()
	if err != nil {
		return true, fmt.Errorf("failed to renew lock %s: %w", lease.Key, err)
	}
	return n == 1, nil
}

func (r *RedisLocker) Release(ctx context.Context, lease *Lease) error {
	if lease == nil {
		return nil
	}
	if lease.stop != nil {
		lease.stop()
	}
	if err := releaseScript.Run(ctx, r.client, []string{r.prefix + lease.Key}, lease.raw).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release lock %s: %w", lease.Key, err)
	}
	return nil
}

func (r *RedisLocker) Holder(ctx context.Context, key string) (*Lease, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lock %s: %w", key, err)
	}

	var lease Lease
	if err := json.Unmarshal([]byte(raw), &lease); err != nil {
		return nil, fmt.Errorf("corrupt lock value for %s: %w", key, err)
	}
	lease.Key = key
	lease.raw = raw
	return &lease, nil
}
