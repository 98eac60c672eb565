package cache

import (
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(NewStore),
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Client *redis.Client `optional:"true"`
}

// NewStore prefers redis and falls back to an in-process cache.
func NewStore(p Params) Store {
	if p.Client != nil {
		return NewRedis(p.Client, p.Log.Named("cache.redis"))
	}
	return NewMemory(defaultMemoryBytes)
}
