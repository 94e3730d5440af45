package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a verification token does not exist
// or has already been consumed.
var ErrTokenNotFound = errors.New("verification token not found")

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisVerificationStore keeps email-verification tokens in Redis with a
// TTL. A token is single-use: consuming it removes it atomically so two
// concurrent verify calls cannot both succeed.
type RedisVerificationStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisVerificationStore creates a new Redis-backed verification store
func NewRedisVerificationStore(cfg RedisConfig, ttl time.Duration) (*RedisVerificationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisVerificationStoreWithClient(client, "", ttl), nil
}

// NewRedisVerificationStoreWithClient creates a store with an existing
// Redis client. Useful for testing or when sharing a client.
func NewRedisVerificationStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisVerificationStore {
	if keyPrefix == "" {
		keyPrefix = "auth:verify:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisVerificationStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Issue creates a fresh verification token for the user and stores it
// with the configured TTL.
func (s *RedisVerificationStore) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.New().String()
	key := s.keyPrefix + token

	if err := s.client.Set(ctx, key, userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store verification token: %w", err)
	}

	return token, nil
}

// Consume resolves a token to its user and deletes it in one round trip.
func (s *RedisVerificationStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	key := s.keyPrefix + token

	value, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to consume verification token: %w", err)
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt verification token payload: %w", err)
	}

	return userID, nil
}

// Close closes the underlying Redis client
func (s *RedisVerificationStore) Close() error {
	return s.client.Close()
}
