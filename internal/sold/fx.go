package sold

import (
	"github.com/smallbiznis/showroom/internal/sold/receipt"
	"github.com/smallbiznis/showroom/internal/sold/repository"
	"github.com/smallbiznis/showroom/internal/sold/service"
	"github.com/smallbiznis/showroom/internal/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("sold.service",
	fx.Provide(repository.Provide),
	fx.Provide(receipt.New),
	fx.Provide(func(l *storage.Local) service.FileRemover { return l }),
	fx.Provide(service.New),
)
