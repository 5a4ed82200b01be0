package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisSnapshotKey = "aulahub:published_courses"

// redisSnapshotStore shares the snapshot across instances through Redis.
// The TTL is enforced by Redis itself; an expired key reads as a miss.
type redisSnapshotStore struct {
	rdb *goredis.Client
}

func NewRedisSnapshotStore(rdb *goredis.Client) SnapshotStore {
	return &redisSnapshotStore{rdb: rdb}
}

func (s *redisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	raw, err := s.rdb.Get(ctx, redisSnapshotKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *redisSnapshotStore) Save(ctx context.Context, raw []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, redisSnapshotKey, raw, ttl).Err()
}

func (s *redisSnapshotStore) Drop(ctx context.Context) error {
	return s.rdb.Del(ctx, redisSnapshotKey).Err()
}

// memorySnapshotStore is the single-instance fallback used when Redis is
// not configured, and the store tests exercise the cache against.
type memorySnapshotStore struct {
	mu        sync.Mutex
	raw       []byte
	expiresAt time.Time
}

func NewMemorySnapshotStore() SnapshotStore {
	return &memorySnapshotStore{}
}

func (s *memorySnapshotStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil || time.Now().After(s.expiresAt) {
		s.raw = nil
		return nil, nil
	}
	out := make([]byte, len(s.raw))
	copy(out, s.raw)
	return out, nil
}

func (s *memorySnapshotStore) Save(_ context.Context, raw []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = make([]byte, len(raw))
	copy(s.raw, raw)
	s.expiresAt = time.Now().Add(ttl)
	return nil
}

func (s *memorySnapshotStore) Drop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = nil
	return nil
}
