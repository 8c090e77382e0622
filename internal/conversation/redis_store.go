package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "conv:"

// RedisStore persists conversation records as JSON blobs in Redis.
// Read-modify-write sequences rely on the engine's per-sender serialization.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed conversation store.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		return nil
	}
	return &RedisStore{client: client}
}

func redisKey(senderID string) string {
	return redisKeyPrefix + senderID
}

// Get returns the record for the sender, or nil when no conversation exists.
func (s *RedisStore) Get(ctx context.Context, senderID string) (*Record, error) {
	data, err := s.client.Get(ctx, redisKey(senderID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: get record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("conversation: unmarshal record: %w", err)
	}
	return &rec, nil
}

// Upsert applies a partial-field update, creating the record if needed.
func (s *RedisStore) Upsert(ctx context.Context, senderID string, fields Fields) error {
	rec, err := s.Get(ctx, senderID)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &Record{SenderID: senderID}
	}
	fields.apply(rec)
	rec.LastUpdated = time.Now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("conversation: marshal record: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(senderID), data, 0).Err(); err != nil {
		return fmt.Errorf("conversation: set record: %w", err)
	}
	return nil
}

// Delete removes the record; deleting an absent record is a no-op.
func (s *RedisStore) Delete(ctx context.Context, senderID string) error {
	if err := s.client.Del(ctx, redisKey(senderID)).Err(); err != nil {
		return fmt.Errorf("conversation: delete record: %w", err)
	}
	return nil
}
