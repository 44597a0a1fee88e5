package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/sentinel"
)

const principalKeyPrefix = "principal:"

// RedisStore persists principal records in Redis. This is the recommended
// backend for distributed deployments sharing account state.
//
// Records carry no TTL: a principal lives until deleted.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed principal store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func principalKey(loginKey string) string {
	return principalKeyPrefix + models.NormalizeLoginKey(loginKey)
}

func (s *RedisStore) Create(ctx context.Context, record *models.PrincipalRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	ok, err := s.client.SetNX(ctx, principalKey(record.LoginKey), data, 0).Result()
	if err != nil {
		return fmt.Errorf("create principal: %w", err)
	}
	if !ok {
		return fmt.Errorf("principal already exists: %w", sentinel.ErrInvalidState)
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, record *models.PrincipalRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	if err := s.client.Set(ctx, principalKey(record.LoginKey), data, 0).Err(); err != nil {
		return fmt.Errorf("save principal: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, loginKey string) (*models.PrincipalRecord, error) {
	data, err := s.client.Get(ctx, principalKey(loginKey)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("principal not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	var record models.PrincipalRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("unmarshal principal: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Delete(ctx context.Context, loginKey string) error {
	deleted, err := s.client.Del(ctx, principalKey(loginKey)).Result()
	if err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("principal not found: %w", sentinel.ErrNotFound)
	}
	return nil
}
