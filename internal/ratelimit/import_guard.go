package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/showroom/internal/csvimport"
)

const (
	keyImportLock = "import:%s"
	importLockTTL = 2 * time.Minute
)

// Both scripts only touch the key while it still holds our token, so a lock
// that expired and was taken by another replica is left alone.
var (
	releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)
	extendLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)
)

// ImportGuard serializes imports of the same kind. With redis the lock spans
// every replica and is kept alive while the import runs; without redis the
// lock is held in process.
type ImportGuard struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	active map[string]struct{}
}

func NewImportGuard(client *redis.Client) *ImportGuard {
	return &ImportGuard{
		client: client,
		ttl:    importLockTTL,
		active: make(map[string]struct{}),
	}
}

// Acquire returns csvimport.ErrImportRunning when another import of kind holds
// the lock. The returned release func must be called once the import ends;
// calling it more than once is harmless.
func (g *ImportGuard) Acquire(ctx context.Context, kind string) (func(), error) {
	if g == nil {
		return func() {}, nil
	}
	if g.client != nil {
		return g.acquireShared(ctx, fmt.Sprintf(keyImportLock, kind))
	}
	return g.acquireLocal(kind)
}

func (g *ImportGuard) acquireShared(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, csvimport.ErrImportRunning
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(g.ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				bg := context.WithoutCancel(ctx)
				_ = extendLockScript.Run(bg, g.client, []string{key}, token, g.ttl.Milliseconds()).Err()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			_ = releaseLockScript.Run(context.WithoutCancel(ctx), g.client, []string{key}, token).Err()
		})
	}, nil
}

func (g *ImportGuard) acquireLocal(kind string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[kind]; busy {
		return nil, csvimport.ErrImportRunning
	}
	g.active[kind] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, kind)
			g.mu.Unlock()
		})
	}, nil
}
