package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	Code string `json:"code"`
}

func TestMemoryJSONRoundTripAndPurge(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(1024 * 1024)

	SetJSON(ctx, store, Key("products", "R-1"), []item{{Code: "R-1"}}, time.Minute)
	SetJSON(ctx, store, Key("videos", "x"), item{Code: "v"}, time.Minute)

	got, ok := GetJSON[[]item](ctx, store, "products:r-1")
	require.True(t, ok)
	assert.Equal(t, []item{{Code: "R-1"}}, got)

	store.Purge(ctx, "products:")
	_, ok = GetJSON[[]item](ctx, store, "products:r-1")
	assert.False(t, ok)

	_, ok = GetJSON[item](ctx, store, "videos:x")
	assert.True(t, ok, "other prefixes survive a purge")
}

func TestGetJSONNilStore(t *testing.T) {
	_, ok := GetJSON[item](context.Background(), nil, "k")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "products:abc", Key(" Products ", "", "ABC"))
}

func TestNewStoreWithoutRedis(t *testing.T) {
	store := NewStore(Params{Log: zap.NewNop()})
	_, ok := store.(*Memory)
	assert.True(t, ok)
}
