package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"checkout-service/models"
)

const sessionKeyPrefix = "checkout_session:"

// RedisStore keeps sessions in redis, each under its own key with a TTL.
type RedisStore struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewRedisStore(cache *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		cache: cache,
		ttl:   ttl,
	}
}

func (s *RedisStore) Save(ctx context.Context, session *models.Session) error {
	payload, err := sonic.ConfigFastest.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	return s.cache.Set(ctx, sessionKey(session.ID), payload, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	payload, err := s.cache.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := sonic.ConfigFastest.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}

	return &session, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
