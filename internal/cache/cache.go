package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Store is a byte cache keyed by string. Implementations never return
// errors to callers: a failed read is a miss and a failed write is dropped.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Purge drops every key starting with prefix.
	Purge(ctx context.Context, prefix string)
}

// GetJSON decodes a cached JSON value.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T
	if s == nil {
		return out, false
	}
	raw, ok := s.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}

// SetJSON encodes value as JSON and stores it.
func SetJSON[T any](ctx context.Context, s Store, key string, value T, ttl time.Duration) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.Set(ctx, key, raw, ttl)
}

// Key joins non-blank parts lowercased with ":".
func Key(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, ":")
}
