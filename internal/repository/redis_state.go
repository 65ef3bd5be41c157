package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"project_armada/internal/entities"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lookupbot:session:"

// RedisStateStore keeps sessions in Redis so several bot instances share them
type RedisStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStateStore stores sessions with ttl expiry; ttl 0 never expires
func NewRedisStateStore(rdb *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{rdb: rdb, ttl: ttl}
}

func redisKey(chatID int64) string {
	return redisKeyPrefix + strconv.FormatInt(chatID, 10)
}

func (s *RedisStateStore) Get(ctx context.Context, chatID int64) (entities.Session, error) {
	data, err := s.rdb.Get(ctx, redisKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.Session{ChatID: chatID}, nil
	}
	if err != nil {
		return entities.Session{}, entities.NewError(entities.KindStateStore, "redis get session", err)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return entities.Session{}, entities.NewError(entities.KindStateStore, "decode session", err)
	}
	session.ChatID = chatID
	return session, nil
}

func (s *RedisStateStore) Set(ctx context.Context, chatID int64, category string) error {
	data, err := json.Marshal(entities.Session{ChatID: chatID, Category: category, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return entities.NewError(entities.KindStateStore, "encode session", err)
	}
	if err := s.rdb.Set(ctx, redisKey(chatID), data, s.ttl).Err(); err != nil {
		return entities.NewError(entities.KindStateStore, "redis set session", err)
	}
	return nil
}

func (s *RedisStateStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.rdb.Del(ctx, redisKey(chatID)).Err(); err != nil {
		return entities.NewError(entities.KindStateStore, "redis clear session", err)
	}
	return nil
}
