// Package token issues and verifies the HS256 bearer tokens handed out at login.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/showroom/internal/auth/domain"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/config"
	"go.uber.org/zap"
)

const defaultTTL = 24 * time.Hour

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewIssuer builds an issuer from AUTH_JWT_SECRET. Outside production a
// missing secret is replaced with a random one, so tokens do not survive a
// restart.
func NewIssuer(cfg config.Config, c clock.Clock, log *zap.Logger) (*Issuer, error) {
	secret := []byte(cfg.AuthJWTSecret)
	if len(secret) == 0 {
		if cfg.IsProduction() {
			return nil, errors.New("AUTH_JWT_SECRET is required in production")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = []byte(hex.EncodeToString(buf))
		log.Warn("AUTH_JWT_SECRET not set; using an ephemeral signing key")
	}
	return New(secret, cfg.AuthJWTTTL, c), nil
}

func New(secret []byte, ttl time.Duration, c clock.Clock) *Issuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Issuer{secret: secret, ttl: ttl, clock: c}
}

// Issue signs a token for id and returns it with its expiry.
func (i *Issuer) Issue(id domain.Identity) (string, time.Time, error) {
	now := i.clock.Now()
	expires := now.Add(i.ttl)
	claims := Claims{
		UserID:   id.UserID.String(),
		Username: id.Username,
		Role:     string(id.Role),
		Status:   string(id.Status),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies raw and returns the identity it carries. Every failure maps
// to domain.ErrInvalidToken.
func (i *Issuer) Parse(raw string) (domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	userID, err := snowflake.ParseString(claims.UserID)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{
		UserID:   userID,
		Username: claims.Username,
		Role:     role,
		Status:   domain.Status(claims.Status),
	}, nil
}
