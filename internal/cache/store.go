package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry is a stored response.
type Entry struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	StoredAt    time.Time `json:"stored_at"`
}

func (e *Entry) cacheable() bool {
	return e != nil && e.Status >= 200 && e.Status < 300
}

type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, e *Entry) error
}

type memoryStore struct {
	entries *lru.Cache[string, *Entry]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns an in-process LRU store holding at most size
// entries. A zero ttl keeps entries until evicted.
func NewMemoryStore(size int, ttl time.Duration) (Store, error) {
	c, err := lru.New[string, *Entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &memoryStore{entries: c, ttl: ttl, now: time.Now}, nil
}

func (s *memoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if s.ttl > 0 && s.now().Sub(e.StoredAt) > s.ttl {
		s.entries.Remove(key)
		return nil, false, nil
	}
	return e, true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, e *Entry) error {
	s.entries.Add(key, e)
	return nil
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return &e, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, e *Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
