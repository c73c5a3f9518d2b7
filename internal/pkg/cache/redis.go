package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// Invalidator drops every cached entry stored under the given query keys.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// RedisCache stores one Redis hash per query key, one field per caller scope,
// so a query key is invalidated with a single DEL regardless of how many
// scopes were cached. Each key also carries a generation counter that
// Invalidate bumps and Set checks. A nil client turns every read into a miss and every
// write into a no-op.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) hashKey(key string) string {
	return c.prefix + key
}

// Get unmarshals the entry at (key, field) into dest.
func (c *RedisCache) Get(ctx context.Context, key, field string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheMiss
	}

	raw, err := c.client.HGet(ctx, c.hashKey(key), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis hget %s %s: %w", c.hashKey(key), field, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s %s: %w", c.hashKey(key), field, err)
	}

	return nil
}

// setIfGeneration writes the field only while the generation counter still
// holds the value read before the entry was loaded.
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[2], ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

func (c *RedisCache) generationKey(key string) string {
	return c.prefix + "gen:" + key
}

// Generation returns the invalidation counter of key, 0 when never invalidated.
func (c *RedisCache) Generation(ctx context.Context, key string) (int64, error) {
	if c.client == nil {
		return 0, nil
	}

	gen, err := c.client.Get(ctx, c.generationKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", c.generationKey(key), err)
	}

	return gen, nil
}

// Set stores value at (key, field) and refreshes the TTL of the whole key, unless
// key was invalidated after generation was read. It reports whether it wrote.
func (c *RedisCache) Set(ctx context.Context, key, field string, generation int64, value interface{}) (bool, error) {
	if c.client == nil {
		return false, nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal cache value for %s %s: %w", c.hashKey(key), field, err)
	}

	written, err := setIfGeneration.Run(ctx, c.client,
		[]string{c.hashKey(key), c.generationKey(key)},
		strconv.FormatInt(generation, 10),
		field,
		string(payload),
		strconv.FormatInt(c.ttl.Milliseconds(), 10),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("redis hset %s %s: %w", c.hashKey(key), field, err)
	}

	return written == 1, nil
}

// Invalidate implements Invalidator. Entries are deleted and the generation of
// every key is bumped in one MULTI/EXEC.
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	hashKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		hashKeys = append(hashKeys, c.hashKey(k))
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, hashKeys...)
		for _, k := range keys {
			pipe.Incr(ctx, c.generationKey(k))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del %v: %w", hashKeys, err)
	}

	return nil
}

// Chain invalidates through every member and joins their errors.
type Chain []Invalidator

func (c Chain) Invalidate(ctx context.Context, keys ...string) error {
	var errs []error
	for _, inv := range c {
		if err := inv.Invalidate(ctx, keys...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Store reads and writes scoped entries under a query key. Writers read the
// Generation before loading and pass it to Set.
type Store interface {
	Get(ctx context.Context, key, field string, dest interface{}) error
	Generation(ctx context.Context, key string) (int64, error)
	Set(ctx context.Context, key, field string, generation int64, value interface{}) (bool, error)
}
