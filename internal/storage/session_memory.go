package storage

import (
	"context"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
)

// MemorySessionStore keeps sessions in process with go-cache handling
// expiry.
type MemorySessionStore struct {
	cache *cache.Cache
}

// NewMemorySessionStore creates a store whose janitor purges expired
// entries every cleanupInterval.
func NewMemorySessionStore(defaultTTL, cleanupInterval time.Duration) *MemorySessionStore {
	return &MemorySessionStore{cache: cache.New(defaultTTL, cleanupInterval)}
}

func (s *MemorySessionStore) Load(_ context.Context, id string) ([]byte, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, apperrors.ErrSessionNotFound
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return data, nil
}

func (s *MemorySessionStore) Save(_ context.Context, id string, data []byte, ttl time.Duration) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.cache.Set(id, cp, ttl)
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// IDs lists unexpired session ids in sorted order.
func (s *MemorySessionStore) IDs(_ context.Context) ([]string, error) {
	items := s.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
