package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "nrkcache:"

	redisDialTimeout = 5 * time.Second
	redisOpTimeout   = 2 * time.Second
)

func init() {
	Register(ProviderRedis, newRedisCache)
}

// Lookups shared between nrkdl runs live under two keys per prefix: a hash
// {prefix}data whose fields expire individually (HPEXPIRE, Redis 7.4+ or
// Valkey 8+) and a sorted set {prefix}lru scoring each key by its last access
// in microseconds.
var (
	// KEYS data, lru. ARGV now, key.
	touchScript = redis.NewScript(`
local v = redis.call('HGET', KEYS[1], ARGV[2])
if v then redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2]) end
return v
`)

	// KEYS data, lru. ARGV key, value, now, ttl ms, capacity. Returns evicted keys.
	storeScript = redis.NewScript(`
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('HPEXPIRE', KEYS[1], tonumber(ARGV[4]), 'FIELDS', 1, ARGV[1])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
local capacity = tonumber(ARGV[5])
local out = {}
while redis.call('ZCARD', KEYS[2]) > capacity do
    local popped = redis.call('ZPOPMIN', KEYS[2], 1)
    if #popped == 0 then break end
    redis.call('HDEL', KEYS[1], popped[1])
    out[#out + 1] = popped[1]
end
return out
`)
)

type redisCache struct {
	client   *redis.Client
	keys     []string
	ttl      time.Duration
	capacity int
	onEvict  EvictCallback
	logger   Logger
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis at %s unreachable: %w", cfg.RedisAddress, err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisCache{
		client:   client,
		keys:     []string{prefix + "data", prefix + "lru"},
		ttl:      cfg.TTL,
		capacity: cfg.Size,
		onEvict:  cfg.OnEvict,
		logger:   cfg.Logger,
	}, nil
}

func (r *redisCache) fail(op string, err error) {
	if r.logger != nil {
		r.logger.Error("redis cache "+op+" failed", err)
	}
}

func stamp() string {
	return strconv.FormatInt(time.Now().UnixMicro(), 10)
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	v, err := touchScript.Run(ctx, r.client, r.keys, stamp(), key).Text()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		r.fail("Get", err)
		return nil, false
	}
	return []byte(v), true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	args := []any{key, value, stamp(), r.ttl.Milliseconds(), r.capacity}
	evicted, err := storeScript.Run(ctx, r.client, r.keys, args...).StringSlice()
	if err != nil {
		r.fail("Set", err)
		return
	}
	if r.onEvict != nil {
		for _, k := range evicted {
			r.onEvict(k, nil)
		}
	}
}

func (r *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	ok, err := r.client.HExists(ctx, r.keys[0], key).Result()
	if err != nil {
		r.fail("Contains", err)
	}
	return ok
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.HLen(ctx, r.keys[0]).Result()
	if err != nil {
		r.fail("Len", err)
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
