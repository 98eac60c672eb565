package seed

import (
	"context"

	authdomain "github.com/smallbiznis/showroom/internal/auth/domain"
	"github.com/smallbiznis/showroom/internal/config"
	"go.uber.org/zap"
)

// EnsureBootstrapAdmin creates the superadmin named by
// BOOTSTRAP_ADMIN_USERNAME when it does not exist yet.
func EnsureBootstrapAdmin(ctx context.Context, cfg config.Config, users authdomain.Service, log *zap.Logger) error {
	username := cfg.Bootstrap.AdminUsername
	if username == "" || cfg.Bootstrap.AdminPassword == "" {
		log.Debug("bootstrap admin not configured")
		return nil
	}

	created, err := users.EnsureUser(ctx, authdomain.RegisterRequest{
		Username: username,
		Password: cfg.Bootstrap.AdminPassword,
		Role:     string(authdomain.RoleSuperAdmin),
	})
	if err != nil {
		return err
	}
	if created {
		log.Info("bootstrap superadmin created", zap.String("username", username))
	}
	return nil
}
