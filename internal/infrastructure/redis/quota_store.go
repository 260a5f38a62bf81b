package redisstore

import (
	"context"
	"fmt"
	"time"

	"ticker-service/internal/application"

	"github.com/redis/go-redis/v9"
)

// QuotaStore is a fixed-window call counter. Every process sharing the same
// Redis and key draws from one budget of Limit calls per Window.
type QuotaStore struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
	Now    func() time.Time
}

var _ application.QuotaGuard = (*QuotaStore)(nil)

func NewQuota(client *redis.Client, limit int, window time.Duration) *QuotaStore {
	return &QuotaStore{Client: client, Limit: limit, Window: window}
}

func (s *QuotaStore) Allow(ctx context.Context, key string) (bool, error) {
	if s.Limit <= 0 || s.Window <= 0 {
		return true, nil
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	slot := now.UnixNano() / int64(s.Window)
	windowKey := fmt.Sprintf("quota:%s:%d", key, slot)

	var incr *redis.IntCmd
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.Expire(ctx, windowKey, 2*s.Window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(s.Limit), nil
}
