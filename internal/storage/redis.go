package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/config"
	"github.com/quickstop/cafebot/internal/domain"
)

// Redis persists the store document as a single JSON value under one key.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{client: client, key: cfg.StoreKey}
}

// Load reads the store document, returning an empty store when the key is
// not set yet.
func (r *Redis) Load(ctx context.Context) (*domain.Store, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewStore(), nil
		}
		return nil, fmt.Errorf("redis get store: %w", err)
	}

	var store domain.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("unmarshal store: %w", err)
	}
	store.Normalize()
	return &store, nil
}

// Save overwrites the store document.
func (r *Redis) Save(ctx context.Context, store *domain.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set store: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}
