package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/coocood/freecache"
)

const defaultMemoryBytes = 32 * 1024 * 1024

// Memory is an in-process Store backed by freecache.
type Memory struct {
	cache *freecache.Cache

	// freecache cannot enumerate keys, so prefixes are tracked to purge them.
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemory(sizeBytes int) *Memory {
	if sizeBytes <= 0 {
		sizeBytes = defaultMemoryBytes
	}
	return &Memory{
		cache: freecache.NewCache(sizeBytes),
		keys:  make(map[string]struct{}),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	val, err := m.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	seconds := int(ttl / time.Second)
	if ttl > 0 && seconds == 0 {
		seconds = 1
	}
	if err := m.cache.Set([]byte(key), value, seconds); err != nil {
		return
	}
	m.mu.Lock()
	m.keys[key] = struct{}{}
	m.mu.Unlock()
}

func (m *Memory) Purge(_ context.Context, prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.keys {
		if strings.HasPrefix(key, prefix) {
			m.cache.Del([]byte(key))
			delete(m.keys, key)
		}
	}
}
