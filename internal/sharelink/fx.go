package sharelink

import (
	"github.com/smallbiznis/showroom/internal/sharelink/repository"
	"github.com/smallbiznis/showroom/internal/sharelink/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sharelink.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
