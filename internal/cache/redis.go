package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sciencegpt:cache:"

// RedisStore keeps one session's entries under a shared key prefix so the
// whole namespace can be dropped when the session ends.
type RedisStore struct {
	client    *redis.Client
	namespace string
	retention time.Duration
	now       Clock
}

// NewRedisStore creates a Store for sessionID. retention bounds how long an
// abandoned key lives in Redis; it is not the logical TTL checked by IsValid.
func NewRedisStore(client *redis.Client, sessionID string, retention time.Duration, now Clock) *RedisStore {
	if now == nil {
		now = time.Now
	}
	return &RedisStore{
		client:    client,
		namespace: keyPrefix + sessionID + ":",
		retention: retention,
		now:       now,
	}
}

func (s *RedisStore) key(k string) string {
	return s.namespace + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return e, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}

	raw, err := json.Marshal(Entry{Payload: data, CreatedAt: s.now()})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.key(key), raw, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) IsValid(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	e, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return fresh(e, ttl, s.now()), nil
}

func (s *RedisStore) Invalidate(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) InvalidateAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.namespace+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", s.namespace, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del namespace: %w", err)
	}
	return nil
}
