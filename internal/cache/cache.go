// Package cache stores upstream response bodies for a bounded time.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
)

// Store is a byte cache keyed by string.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a compact cache key from a namespace and arbitrary parts.
func Key(namespace string, parts ...string) string {
	sum := xxhash.Checksum64([]byte(strings.Join(parts, "\x00")))
	return namespace + ":" + strconv.FormatUint(sum, 16)
}

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

// Memory is an in-process Store with per-entry expiry.
type Memory struct {
	mu       sync.RWMutex
	items    map[string]memoryItem
	maxItems int
	now      func() time.Time
}

// NewMemory creates a memory store holding at most maxItems entries (0 = unbounded).
func NewMemory(maxItems int) *Memory {
	return &Memory{
		items:    make(map[string]memoryItem),
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Get returns a live entry.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if m.now().After(item.expireAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return item.value, true, nil
}

// Set stores value until ttl elapses.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem{value: value, expireAt: m.now().Add(ttl)}
	if m.maxItems > 0 && len(m.items) > m.maxItems {
		m.evictSoonest()
	}
	return nil
}

func (m *Memory) evictSoonest() {
	var victim string
	var soonest time.Time
	for k, item := range m.items {
		if victim == "" || item.expireAt.Before(soonest) {
			victim = k
			soonest = item.expireAt
		}
	}
	delete(m.items, victim)
}

// Redis is a Store backed by a Redis server.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to the server described by url (redis://...).
func NewRedis(url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	return &Redis{rdb: redis.NewClient(opt)}, nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

// Get returns the stored value when present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get: %w", err)
	}
	return val, true, nil
}

// Set stores value with expiry ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}
