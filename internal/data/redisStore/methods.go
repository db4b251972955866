package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// SetNX is the dedup primitive: only one caller can create the key.
func (s *Store) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, expiration).Result()
}

// Sorted-set index backing the pending queue.

func (s *Store) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRem returns how many members were removed. Exactly one concurrent
// caller observes 1 for the same member, which makes it usable as an
// atomic claim.
func (s *Store) ZRem(ctx context.Context, key string, member string) (int64, error) {
	return s.client.ZRem(ctx, key, member).Result()
}

func (s *Store) ZRangeLimit(ctx context.Context, key string, limit int64) ([]string, error) {
	return s.ZRangeWindow(ctx, key, 0, limit)
}

// ZRangeWindow pages through the sorted set in score order. Count -1
// returns everything from offset onward.
func (s *Store) ZRangeWindow(ctx context.Context, key string, offset, count int64) ([]string, error) {
	return s.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: "-inf", Max: "+inf", Offset: offset, Count: count,
	}).Result()
}

func (s *Store) ZCard(ctx context.Context, key string) (int64, error) {
	return s.client.ZCard(ctx, key).Result()
}

// Set index used for per-case job listings.

func (s *Store) SAdd(ctx context.Context, key string, member string) error {
	return s.client.SAdd(ctx, key, member).Err()
}

func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.SMembers(ctx, key).Result()
}
