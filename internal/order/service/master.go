package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/order/domain"
	"github.com/smallbiznis/showroom/pkg/db"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"github.com/smallbiznis/showroom/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Master serves one master-data table through the generic store.
type Master[T any] struct {
	kind  string
	store repository.Repository[T]
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
	build func(id snowflake.ID, name string, at time.Time) *T
}

func newMaster[T any](kind string, p MasterParams, build func(snowflake.ID, string, time.Time) *T) *Master[T] {
	return &Master[T]{
		kind:  kind,
		store: repository.ProvideStore[T](p.DB),
		genID: p.GenID,
		clock: p.Clock,
		log:   p.Log.Named("order." + kind),
		build: build,
	}
}

func (m *Master[T]) Create(ctx context.Context, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	item := m.build(m.genID.Generate(), name, m.clock.Now())
	if err := m.store.Create(ctx, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("create %s: %w", m.kind, err)
	}
	return item, nil
}

func (m *Master[T]) List(ctx context.Context) ([]*T, error) {
	items, err := m.store.Find(ctx, nil, option.WithSortBy("name", false))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}

func (m *Master[T]) Delete(ctx context.Context, id string) error {
	itemID, err := parseID(id)
	if err != nil {
		return err
	}
	n, err := m.store.Delete(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.kind, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	m.log.Info("deleted", zap.String("id", itemID.String()))
	return nil
}

type MasterParams struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewCategories(p MasterParams) domain.MasterData[domain.Category] {
	return newMaster("category", p, func(id snowflake.ID, name string, at time.Time) *domain.Category {
		return &domain.Category{ID: id, Name: name, Timestamp: at}
	})
}

func NewSalespersons(p MasterParams) domain.MasterData[domain.Salesperson] {
	return newMaster("salesperson", p, func(id snowflake.ID, name string, at time.Time) *domain.Salesperson {
		return &domain.Salesperson{ID: id, Name: name, Timestamp: at}
	})
}

func NewStatusOptions(p MasterParams) domain.MasterData[domain.StatusOption] {
	return newMaster("status", p, func(id snowflake.ID, name string, at time.Time) *domain.StatusOption {
		return &domain.StatusOption{ID: id, Name: name, Timestamp: at}
	})
}

func NewKarigars(p MasterParams) domain.MasterData[domain.Karigar] {
	return newMaster("karigar", p, func(id snowflake.ID, name string, at time.Time) *domain.Karigar {
		return &domain.Karigar{ID: id, Name: name, Timestamp: at}
	})
}
