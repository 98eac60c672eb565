package customer

import (
	"github.com/smallbiznis/showroom/internal/customer/repository"
	"github.com/smallbiznis/showroom/internal/customer/service"
	"github.com/smallbiznis/showroom/internal/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(l *storage.Local) service.FileRemover { return l }),
	fx.Provide(service.New),
)
