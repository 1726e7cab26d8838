package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bobarin/echoverse/internal/models"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "session:"

// RedisStore keeps each session's history as a Redis list so several API
// replicas can serve the same session. Keys expire after ttl of inactivity,
// which ends the session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func historyKey(id string) string {
	return keyPrefix + id + ":narrations"
}

func (s *RedisStore) Load(ctx context.Context, id string) (models.History, error) {
	if !ValidID(id) {
		return models.History{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	key := historyKey(id)
	var items *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return models.History{}, fmt.Errorf("failed to load session history: %w", err)
	}

	return decodeHistory(items.Val())
}

func (s *RedisStore) Append(ctx context.Context, id string, n *models.Narration) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal narration: %w", err)
	}

	key := historyKey(id)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append narration: %w", err)
	}
	return nil
}

// decodeHistory turns list entries, oldest first, into a History.
func decodeHistory(items []string) (models.History, error) {
	records := make([]*models.Narration, 0, len(items))
	for i, item := range items {
		var n models.Narration
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return models.History{}, fmt.Errorf("failed to unmarshal narration %d: %w", i, err)
		}
		records = append(records, &n)
	}
	return models.NewHistory(records...), nil
}
