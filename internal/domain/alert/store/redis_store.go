// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Divyansh7131/Rakshak/internal/domain/alert/model"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps the record under "<prefix>current". Redis must be
// configured with persistence for the record to survive a restart.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "rakshak:alert:"
	}
	return &RedisStore{client: client, key: prefix + "current"}, nil
}

func (s *RedisStore) Save(ctx context.Context, rec model.PersistedRecord) error {
	buf, err := encode(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, buf, 0).Err(); err != nil {
		return fmt.Errorf("redis store: save: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*model.PersistedRecord, error) {
	buf, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis store: load: %w", err)
	}
	return decode(buf)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis store: clear: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
