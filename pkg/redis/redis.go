package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/member-directory/config"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// TokenStore keeps revoked bearer tokens until they would have expired anyway.
type TokenStore struct {
	client *redis.Client
}

// Connect opens a Redis connection and verifies it with a PING.
func Connect(cfg *config.RedisConfig) (*TokenStore, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return NewTokenStore(client), nil
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Close closes the Redis connection
func (s *TokenStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	logger.Info("Closing Redis connection")
	return s.client.Close()
}

// Blacklist revokes token for the given duration. A non-positive expiry is a no-op.
func (s *TokenStore) Blacklist(ctx context.Context, token string, expiry time.Duration) error {
	if expiry <= 0 {
		return nil
	}
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	if err := s.client.Set(ctx, blacklistPrefix+token, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	return nil
}

// IsBlacklisted checks if a token has been revoked
func (s *TokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	val, err := s.client.Get(ctx, blacklistPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return val == "revoked", nil
}
