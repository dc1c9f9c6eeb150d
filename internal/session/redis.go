// Package session holds the Redis-backed bearer session store used when
// REDIS_URL is configured. Without Redis, sessions live in the SQL store
// (repos.SessionRepo).
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"vibecommerce/internal/domain"
)

const namespace = "vibecommerce:sessions"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) tokenKey(token string) string { return namespace + ":token:" + token }
func (s *RedisStore) userKey(userID string) string { return namespace + ":user:" + userID }

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(token), userID, s.ttl)
	pipe.SAdd(ctx, s.userKey(userID), token)
	pipe.Expire(ctx, s.userKey(userID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.Unauthorized("Invalid or expired session")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	userID, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.tokenKey(token))
	pipe.SRem(ctx, s.userKey(userID), token)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) DeleteForUser(ctx context.Context, userID string) error {
	tokens, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, s.tokenKey(t))
	}
	keys = append(keys, s.userKey(userID))
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }
