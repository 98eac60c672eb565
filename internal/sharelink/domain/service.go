package domain

import (
	"context"
	"errors"
	"time"

	videodomain "github.com/smallbiznis/showroom/internal/video/domain"
)

type GenerateRequest struct {
	VideoIDs     []string
	ExpiryDate   *time.Time
	CustomerName string
}

type FavoriteRequest struct {
	Token    string
	VideoIDs []string
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (Link, error)
	Videos(ctx context.Context, token string) ([]videodomain.Video, error)
	ListLinks(ctx context.Context) ([]Link, error)
	// PurgeExpired deletes links that expired more than retention ago.
	PurgeExpired(ctx context.Context, retention time.Duration) (int64, error)

	AddFavorite(ctx context.Context, req FavoriteRequest) (Favorite, error)
	ListFavorites(ctx context.Context, customerName string) ([]Favorite, error)
	DeleteFavorite(ctx context.Context, id string) (Favorite, error)
}

var (
	ErrEmptyVideoIDs     = errors.New("invalid_video_ids")
	ErrInvalidVideoID    = errors.New("invalid_video_id")
	ErrMissingExpiry     = errors.New("invalid_expiry_date")
	ErrMissingToken      = errors.New("invalid_token")
	ErrInvalidFavoriteID = errors.New("invalid_favorite_id")
	ErrLinkNotFound      = errors.New("link_not_found")
	ErrLinkExpired       = errors.New("link_expired")
	ErrFavoriteNotFound  = errors.New("favorite_not_found")
	ErrFavoriteExists    = errors.New("favorite_exists")
)
