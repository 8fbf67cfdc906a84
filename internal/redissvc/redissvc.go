package redissvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HeartbeatKey holds the time of the latest heartbeat tick in RFC3339Nano.
const HeartbeatKey = "product-catalog:heartbeat"

// ErrNoHeartbeat is returned when no heartbeat has been recorded or it has expired.
var ErrNoHeartbeat = errors.New("no heartbeat recorded")

type RedisService struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisService wraps rdb. Recorded heartbeats expire after ttl.
func NewRedisService(rdb *redis.Client, ttl time.Duration) *RedisService {
	return &RedisService{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// RecordHeartbeat stores t as the latest heartbeat.
func (s *RedisService) RecordHeartbeat(ctx context.Context, t time.Time) error {
	if err := s.rdb.Set(ctx, HeartbeatKey, t.UTC().Format(time.RFC3339Nano), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}
	return nil
}

// LastHeartbeat returns the latest recorded heartbeat.
func (s *RedisService) LastHeartbeat(ctx context.Context) (time.Time, error) {
	val, err := s.rdb.Get(ctx, HeartbeatKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, ErrNoHeartbeat
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read heartbeat: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt heartbeat value %q: %w", val, err)
	}
	return t, nil
}

func (s *RedisService) Close() error {
	return s.rdb.Close()
}
