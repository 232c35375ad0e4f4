package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SnapshotKey      = "trends:snapshot"
	historyKeyPrefix = "trends:history:"
)

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

func HistoryKey(playerID string) string { return historyKeyPrefix + playerID }

// SetJSON stores v as JSON under key.
func SetJSON(ctx context.Context, client RedisClient, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return client.Set(ctx, key, data, ttl).Err()
}

// GetJSON decodes the value at key into dst. A missing key reports false with
// no error.
func GetJSON(ctx context.Context, client RedisClient, key string, dst any) (bool, error) {
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
