package auth

import (
	"github.com/smallbiznis/showroom/internal/auth/repository"
	"github.com/smallbiznis/showroom/internal/auth/service"
	"github.com/smallbiznis/showroom/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(token.NewIssuer),
	fx.Provide(service.New),
)
