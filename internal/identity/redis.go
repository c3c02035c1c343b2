package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "user"

// RedisStore persists session users in Redis under a fixed key per session,
// so an authenticated identity survives application restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps sessions until
// they are explicitly cleared.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*User, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal session user: %w", err)
	}
	return &user, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear session user: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", sessionKeyPrefix, sessionID)
}
