package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"drone-delivery-service/internal/platform/obs"
	"drone-delivery-service/internal/ports"
	redis "github.com/redis/go-redis/v9"
)

// RedisPathCache keeps the costs of one origin in a single hash,
// keyed by destination.
type RedisPathCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ ports.PathCostCache = (*RedisPathCache)(nil)

// NewRedisPathCache connects using a redis:// URL. A zero ttl keeps entries
// forever.
func NewRedisPathCache(url string, ttl time.Duration) (*RedisPathCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis path cache: parse url: %w", err)
	}
	return &RedisPathCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func (c *RedisPathCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisPathCache) Close() error { return c.rdb.Close() }

func (c *RedisPathCache) key(namespace, origin string) string {
	return "pathcost:" + namespace + ":" + origin
}

func (c *RedisPathCache) GetMany(
	ctx context.Context,
	namespace string,
	origin string,
	destinations []string,
) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "path.cache.redis.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get path cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	vals, err := c.rdb.HMGet(ctx, c.key(namespace, origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get path cache: hmget: %w", err)
	}

	out := make(map[string]float64, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		cost, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("get path cache: parse cost for %q: %w", uniq[i], err)
		}
		out[uniq[i]] = cost
	}
	return out, nil
}

func (c *RedisPathCache) PutMany(
	ctx context.Context,
	namespace string,
	origin string,
	costs map[string]float64,
) error {
	if origin == "" {
		return errors.New("insert path cache: origin must not be empty")
	}
	if len(costs) == 0 {
		return nil
	}

	fields := make(map[string]any, len(costs))
	for dest, cost := range costs {
		if dest == "" {
			return errors.New("insert path cache: empty destination key")
		}
		fields[dest] = strconv.FormatFloat(cost, 'g', -1, 64)
	}

	key := c.key(namespace, origin)
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, fields)
		if c.ttl > 0 {
			p.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert path cache: hset: %w", err)
	}
	return nil
}
