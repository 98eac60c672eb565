package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/auth/domain"
	"github.com/smallbiznis/showroom/internal/auth/password"
	"github.com/smallbiznis/showroom/internal/auth/token"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/observability/metrics"
	"github.com/smallbiznis/showroom/internal/ratelimit"
	"github.com/smallbiznis/showroom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Tokens  *token.Issuer
	Clock   clock.Clock
	Limiter *ratelimit.LoginLimiter `optional:"true"`
	Metrics *metrics.Metrics        `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	tokens  *token.Issuer
	clock   clock.Clock
	limiter *ratelimit.LoginLimiter
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("auth.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		tokens:  p.Tokens,
		clock:   p.Clock,
		limiter: p.Limiter,
		metrics: p.Metrics,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidPassword
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, s.db, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: hashed,
		Status:       domain.StatusActive,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.String("username", username), zap.String("role", string(role)))
	return user, nil
}

func (s *Service) EnsureUser(ctx context.Context, req domain.RegisterRequest) (bool, error) {
	_, err := s.Register(ctx, req)
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	res, err := s.limiter.Allow(ctx, username, req.ClientIP)
	if err != nil {
		s.log.Warn("login throttle unavailable", zap.Error(err))
	} else if !res.Allowed {
		s.metrics.RecordLoginDenied(ctx, "throttled")
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordLoginDenied(ctx, "unknown_user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active() {
		s.metrics.RecordLoginDenied(ctx, "inactive")
		return nil, domain.ErrInactiveUser
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		s.metrics.RecordLoginDenied(ctx, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	raw, expires, err := s.tokens.Issue(domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Status:   user.Status,
	})
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{Token: raw, ExpiresAt: expires, User: user}, nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (domain.Identity, error) {
	raw := strings.TrimSpace(rawToken)
	if raw == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return s.tokens.Parse(raw)
}

func (s *Service) ListUsers(ctx context.Context, usernameContains string) ([]domain.User, error) {
	users, err := s.repo.List(ctx, s.db, usernameContains)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *Service) UpdateUser(ctx context.Context, req domain.UpdateUserRequest) error {
	id, err := parseID(req.ID)
	if err != nil {
		return err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.ErrInvalidUsername
	}
	if strings.TrimSpace(req.Password) == "" {
		return domain.ErrInvalidPassword
	}

	if existing, err := s.repo.FindByUsername(ctx, s.db, username); err == nil && existing.ID != id {
		return domain.ErrUserExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return err
	}
	err = s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"username":      username,
		"password_hash": hashed,
		"updated_at":    s.clock.Now(),
	})
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrUserExists
	}
	return err
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(newPassword) == "" {
		return domain.ErrInvalidPassword
	}
	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"password_hash": hashed,
		"updated_at":    s.clock.Now(),
	})
}

func (s *Service) SetStatus(ctx context.Context, userID, status string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"status":     st,
		"updated_at": s.clock.Now(),
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
