package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
)

const (
	keyLoginAttempt = "auth:login:%s:%s"

	loginBurst = 5
	// one attempt every 12 seconds once the burst is spent
	loginRate = 1.0 / 12
)

// LoginLimiter throttles login attempts per username and client IP. A nil
// limiter allows everything.
type LoginLimiter struct {
	bucket *TokenBucket
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	if client == nil {
		return nil
	}
	return &LoginLimiter{bucket: NewTokenBucket(client)}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *LoginLimiter) Allow(ctx context.Context, username, clientIP string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyLoginAttempt,
		strings.ToLower(strings.TrimSpace(username)),
		strings.TrimSpace(clientIP),
	)
	return l.bucket.Allow(ctx, key, loginRate, loginBurst)
}
