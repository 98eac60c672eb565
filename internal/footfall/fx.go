package footfall

import (
	"github.com/smallbiznis/showroom/internal/footfall/repository"
	"github.com/smallbiznis/showroom/internal/footfall/service"
	"go.uber.org/fx"
)

var Module = fx.Module("footfall.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
