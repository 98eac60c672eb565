package order

import (
	"github.com/smallbiznis/showroom/internal/order/repository"
	"github.com/smallbiznis/showroom/internal/order/service"
	"github.com/smallbiznis/showroom/internal/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(l *storage.Local) service.FileRemover { return l }),
	fx.Provide(service.New),
	fx.Provide(
		service.NewCategories,
		service.NewSalespersons,
		service.NewStatusOptions,
		service.NewKarigars,
	),
)
