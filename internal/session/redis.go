package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the longer-lived echo tier. It survives API restarts, so a
// staff member who already classified does not pay a directory round-trip on
// the next deploy. Redis owns expiry via key TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates an echo store with the given record TTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (s *RedisStore) key(subjectID string) string {
	return s.prefix + subjectID
}

func (s *RedisStore) Get(ctx context.Context, subjectID string) (*Record, error) {
	if subjectID == "" {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.key(subjectID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil || !rec.Valid() {
		// Malformed echo entries are a miss, not an error. Best effort cleanup.
		_ = s.client.Del(ctx, s.key(subjectID)).Err()
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	if rec.SubjectID == "" {
		return errors.New("record subject ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return s.client.Set(ctx, s.key(rec.SubjectID), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(subjectID)).Err()
}
