package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/sharelink/domain"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertLink(ctx context.Context, db *gorm.DB, link *domain.Link) error {
	return db.WithContext(ctx).Create(link).Error
}

func (r *repo) FindLinkByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Link, error) {
	var link domain.Link
	err := db.WithContext(ctx).Where("token = ?", token).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repo) ListLinks(ctx context.Context, db *gorm.DB) ([]domain.Link, error) {
	stmt := option.WithSortBy("created_at", true).Apply(db.WithContext(ctx).Model(&domain.Link{}))

	var links []domain.Link
	if err := stmt.Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repo) DeleteLinksExpiredBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expiry_date < ?", cutoff).Delete(&domain.Link{})
	return res.RowsAffected, res.Error
}

func (r *repo) InsertFavorite(ctx context.Context, db *gorm.DB, fav *domain.Favorite) error {
	return db.WithContext(ctx).Create(fav).Error
}

func (r *repo) FindFavoriteByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Favorite, error) {
	var fav domain.Favorite
	err := db.WithContext(ctx).Where("id = ?", id).First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *repo) ListFavorites(ctx context.Context, db *gorm.DB, customerName string) ([]domain.Favorite, error) {
	stmt := db.WithContext(ctx).Model(&domain.Favorite{})
	if customerName != "" {
		stmt = option.WithEqual("customer_name", customerName).Apply(stmt)
	}
	stmt = option.WithSortBy("created_at", true).Apply(stmt)

	var favs []domain.Favorite
	if err := stmt.Find(&favs).Error; err != nil {
		return nil, err
	}
	return favs, nil
}

func (r *repo) DeleteFavorite(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Favorite{}).Error
}
