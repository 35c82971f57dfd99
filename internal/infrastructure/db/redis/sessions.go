package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore records the last-issued bearer token per account.
// Key format: session:<username>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Record stores the freshly issued token, superseding any earlier one.
// The entry expires together with the token itself.
func (s *SessionStore) Record(ctx context.Context, username, token string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(username), token, ttl).Err()
}

// Current returns the last-issued token for the account, or "" when no
// session has been recorded (or the record expired).
func (s *SessionStore) Current(ctx context.Context, username string) (string, error) {
	val, err := s.client.Get(ctx, s.key(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("session lookup: %w", err)
	}
	return val, nil
}

func (s *SessionStore) key(username string) string {
	return fmt.Sprintf("session:%s", username)
}
