package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/showroom/internal/csvimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLimiterDisabledWithoutRedis(t *testing.T) {
	limiter := NewLoginLimiter(nil)
	assert.False(t, limiter.Enabled())

	res, err := limiter.Allow(context.Background(), "asha", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestTokenBucketRequiresClient(t *testing.T) {
	var bucket *TokenBucket
	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestImportGuardInProcess(t *testing.T) {
	guard := NewImportGuard(nil)
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "products")
	require.NoError(t, err)

	_, err = guard.Acquire(ctx, "products")
	assert.ErrorIs(t, err, csvimport.ErrImportRunning)

	other, err := guard.Acquire(ctx, "footfall")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := guard.Acquire(ctx, "products")
	require.NoError(t, err)
	again()
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, "20s", bucketTTL(0.5, 5).String())
	assert.Equal(t, "1s", bucketTTL(100, 1).String())
}

func TestParseBucketReply(t *testing.T) {
	res, err := parseBucketReply([]int64{0, 0, 7500}, 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)
	assert.Equal(t, 7500*time.Millisecond, res.RetryAfter)

	res, err = parseBucketReply([]int64{1, 3, 0}, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 3, res.Remaining)

	_, err = parseBucketReply([]int64{1}, 5)
	assert.Error(t, err)
}
