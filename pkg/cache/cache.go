package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeedCache stores public feed pages. Invalidate makes every stored page unreachable.
type FeedCache interface {
	Get(ctx context.Context, params map[string]string, dest any) (bool, error)
	Set(ctx context.Context, params map[string]string, value any) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisClient(addr string, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *RedisCache) key(ctx context.Context, params map[string]string) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Result()
	if errors.Is(err, redis.Nil) {
		version = "0"
	} else if err != nil {
		return "", err
	}
	return GenerateQueryCacheKey(c.prefix+":"+version, params), nil
}

func (c *RedisCache) Get(ctx context.Context, params map[string]string, dest any) (bool, error) {
	key, err := c.key(ctx, params)
	if err != nil {
		return false, err
	}
	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

func (c *RedisCache) Set(ctx context.Context, params map[string]string, value any) error {
	key, err := c.key(ctx, params)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate bumps the version segment of every key. Old pages expire on their own.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.versionKey()).Err()
}

// NopCache is used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(ctx context.Context, params map[string]string, dest any) (bool, error) {
	return false, nil
}

func (NopCache) Set(ctx context.Context, params map[string]string, value any) error {
	return nil
}

func (NopCache) Invalidate(ctx context.Context) error {
	return nil
}

func GenerateQueryCacheKey(prefix string, queryParams map[string]string) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(queryParams[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
