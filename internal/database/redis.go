package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/config"
)

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection established")
	return client, nil
}

const (
	tokenKeyPrefix     = "authtoken:"
	tokenUserKeyPrefix = "authtoken:user:"
)

// RedisTokenStore keeps opaque auth tokens in Redis with a fixed TTL.
// Two keys are written per token so lookup works in both directions:
// token -> user id, and user id -> token (for one-token-per-user reuse).
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore wraps a Redis client as a token store.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(token string) string { return tokenKeyPrefix + token }

func userKey(userID uint) string {
	return tokenUserKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Save binds token to userID for ttl.
func (s *RedisTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(token), strconv.FormatUint(uint64(userID), 10), ttl)
	pipe.Set(ctx, userKey(userID), token, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Resolve returns the user id bound to token. On a hit both keys are
// refreshed to the full ttl, giving tokens a sliding expiry.
func (s *RedisTokenStore) Resolve(ctx context.Context, token string, ttl time.Duration) (uint, bool, error) {
	val, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("malformed token record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Expire(ctx, tokenKey(token), ttl)
	pipe.Expire(ctx, userKey(uint(id)), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, false, err
	}
	return uint(id), true, nil
}

// TokenForUser returns the live token for userID, if any.
func (s *RedisTokenStore) TokenForUser(ctx context.Context, userID uint) (string, bool, error) {
	token, err := s.client.Get(ctx, userKey(userID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

// Delete revokes token and its reverse mapping.
func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	val, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	keys := []string{tokenKey(token)}
	if id, err := strconv.ParseUint(val, 10, 64); err == nil {
		keys = append(keys, userKey(uint(id)))
	}
	return s.client.Del(ctx, keys...).Err()
}
