package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
)

const sessionKeyPrefix = "loanverse:session:"

// RedisSessionStore shares sessions between instances. Expiry is delegated
// to Redis key TTLs.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperrors.NewStorageError("load session", err)
	}
	return data, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(id), data, ttl).Err(); err != nil {
		return apperrors.NewStorageError("save session", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return apperrors.NewStorageError("delete session", err)
	}
	return nil
}

// IDs scans the session keyspace. It is meant for background jobs, not the
// request path.
func (s *RedisSessionStore) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), sessionKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.NewStorageError("scan sessions", err)
	}
	sort.Strings(ids)
	return ids, nil
}
