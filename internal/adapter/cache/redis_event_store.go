package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerzombo-blip/DonFood/internal/payments"
)

// RedisEventStore remembers webhook delivery ids so retried deliveries
// can be spotted. The TTL covers the gateway's retry window.
type RedisEventStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisEventStore(rdb *redis.Client, ttl time.Duration) *RedisEventStore {
	return &RedisEventStore{rdb: rdb, ttl: ttl}
}

func (s *RedisEventStore) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	return s.rdb.SetNX(ctx, "webhook:event:"+eventID, "1", s.ttl).Result()
}

var _ payments.EventStore = (*RedisEventStore)(nil)
