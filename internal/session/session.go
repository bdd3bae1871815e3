package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refresh_token:"

// Store keeps at most one live refresh token per account.
type Store interface {
	Store(ctx context.Context, accountID, token string, ttl time.Duration) error
	Get(ctx context.Context, accountID string) (string, bool, error)
	// Revoke drops the account's session only while token is the live one,
	// and reports whether it did.
	Revoke(ctx context.Context, accountID, token string) (bool, error)
}

var revokeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func Key(accountID string) string {
	return keyPrefix + accountID
}

func (s *RedisStore) Store(ctx context.Context, accountID, token string, ttl time.Duration) error {
	if accountID == "" {
		return fmt.Errorf("session: empty account id")
	}
	return s.client.Set(ctx, Key(accountID), token, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, accountID string) (string, bool, error) {
	value, err := s.client.Get(ctx, Key(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Revoke(ctx context.Context, accountID, token string) (bool, error) {
	removed, err := revokeScript.Run(ctx, s.client, []string{Key(accountID)}, token).Int64()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// NewRedisClient accepts redis:// and rediss:// URLs and verifies the
// connection before returning.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return nil, fmt.Errorf("redis url must start with redis:// or rediss://")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
