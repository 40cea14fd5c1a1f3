package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/gomodule/redigo/redis"
)

const HistoryKey = "passgen:history"

// RedisStorage keeps the most recent records in a capped redis list,
// newest at the head.
type RedisStorage struct {
	pool  *redis.Pool
	limit int
}

func NewRedisStorage(addr string, db int, limit int) *RedisStorage {
	return newWithDial(func() (redis.Conn, error) {
		return redis.Dial("tcp", addr,
			redis.DialDatabase(db),
			redis.DialConnectTimeout(time.Second),
			redis.DialWriteTimeout(time.Second),
			redis.DialReadTimeout(time.Second))
	}, limit)
}

func newWithDial(dial func() (redis.Conn, error), limit int) *RedisStorage {
	if limit <= 0 {
		limit = 100
	}
	return &RedisStorage{
		pool: &redis.Pool{
			Dial:        dial,
			MaxIdle:     3,
			MaxActive:   16,
			IdleTimeout: 240 * time.Second,
			Wait:        true,
		},
		limit: limit,
	}
}

func (s *RedisStorage) SaveRecord(ctx context.Context, record models.HistoryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode history record: %w", err)
	}

	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	// LPUSH and LTRIM go out as one MULTI/EXEC round trip so the list never
	// holds more than limit entries.
	if err := conn.Send("MULTI"); err != nil {
		return fmt.Errorf("failed to start history transaction: %w", err)
	}
	if err := conn.Send("LPUSH", HistoryKey, data); err != nil {
		return fmt.Errorf("failed to queue history record: %w", err)
	}
	if err := conn.Send("LTRIM", HistoryKey, 0, s.limit-1); err != nil {
		return fmt.Errorf("failed to queue history trim: %w", err)
	}
	if _, err := redis.Values(conn.Do("EXEC")); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	return nil
}

func (s *RedisStorage) ListRecords(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	values, err := redis.ByteSlices(conn.Do("LRANGE", HistoryKey, 0, limit-1))
	if err != nil && err != redis.ErrNil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	records := make([]models.HistoryRecord, 0, len(values))
	for _, v := range values {
		var rec models.HistoryRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode history record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisStorage) Ping(ctx context.Context) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Do("PING")
	return err
}

func (s *RedisStorage) Close() error {
	return s.pool.Close()
}
