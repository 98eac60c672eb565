package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertLink(ctx context.Context, db *gorm.DB, link *Link) error
	FindLinkByToken(ctx context.Context, db *gorm.DB, token string) (*Link, error)
	ListLinks(ctx context.Context, db *gorm.DB) ([]Link, error)
	DeleteLinksExpiredBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)

	InsertFavorite(ctx context.Context, db *gorm.DB, fav *Favorite) error
	FindFavoriteByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Favorite, error)
	ListFavorites(ctx context.Context, db *gorm.DB, customerName string) ([]Favorite, error)
	DeleteFavorite(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
