package migration

import (
	"context"

	authdomain "github.com/smallbiznis/showroom/internal/auth/domain"
	"github.com/smallbiznis/showroom/internal/config"
	"github.com/smallbiznis/showroom/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, users authdomain.Service, log *zap.Logger) error {
		if err := Apply(conn, cfg.DBType); err != nil {
			return err
		}
		return seed.EnsureBootstrapAdmin(context.Background(), cfg, users, log.Named("seed"))
	}),
)
