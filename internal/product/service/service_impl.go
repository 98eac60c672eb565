package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/cache"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/config"
	"github.com/smallbiznis/showroom/internal/observability/metrics"
	"github.com/smallbiznis/showroom/internal/product/domain"
	"github.com/smallbiznis/showroom/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	searchCachePrefix = "products:code:"
	searchCacheTTL    = 12 * time.Hour
	// searchGenerationKey is bumped by every import; search keys embed it so
	// a result read from the previous catalog is never served again.
	searchGenerationKey = "products:generation"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Clock    clock.Clock
	Cache    cache.Store                  `optional:"true"`
	Guard    *ratelimit.ImportGuard       `optional:"true"`
	Settings *config.ImportSettingsHolder `optional:"true"`
	Metrics  *metrics.Metrics             `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	cache    cache.Store
	guard    *ratelimit.ImportGuard
	settings *config.ImportSettingsHolder
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	settings := p.Settings
	if settings == nil {
		settings = config.NewStaticImportSettings(config.DefaultImportSettings())
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("product.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		cache:    p.Cache,
		guard:    p.Guard,
		settings: settings,
		metrics:  p.Metrics,
	}
}

// Search returns the products whose jewel_code equals code exactly.
func (s *Service) Search(ctx context.Context, code string) ([]domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidJewelCode
	}

	key := s.searchKey(ctx, code)
	if items, ok := cache.GetJSON[[]domain.Product](ctx, s.cache, key); ok {
		return items, nil
	}

	items, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if items == nil {
		items = []domain.Product{}
	}
	cache.SetJSON(ctx, s.cache, key, items, searchCacheTTL)
	return items, nil
}

func (s *Service) searchKey(ctx context.Context, code string) string {
	gen, _ := cache.GetJSON[int64](ctx, s.cache, searchGenerationKey)
	return fmt.Sprintf("%s%d:%s", searchCachePrefix, gen, code)
}

// invalidateSearch moves searches to a new generation and drops the old
// entries.
func (s *Service) invalidateSearch(ctx context.Context) {
	if s.cache == nil {
		return
	}
	cache.SetJSON(ctx, s.cache, searchGenerationKey, s.genID.Generate().Int64(), 0)
	s.cache.Purge(ctx, searchCachePrefix)
}
