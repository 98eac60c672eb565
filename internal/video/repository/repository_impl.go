package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/video/domain"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, video *domain.Video) error {
	return db.WithContext(ctx).Create(video).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Video{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Video, error) {
	var video domain.Video
	err := db.WithContext(ctx).Where("id = ?", id).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Video, error) {
	if len(ids) == 0 {
		return []domain.Video{}, nil
	}
	stmt := db.WithContext(ctx).Model(&domain.Video{})
	stmt = option.WithIn("id", ids).Apply(stmt)
	stmt = option.WithSortBy("created_at", true).Apply(stmt)

	var videos []domain.Video
	if err := stmt.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, category string) ([]domain.Video, error) {
	stmt := db.WithContext(ctx).Model(&domain.Video{})
	if category != "" {
		stmt = option.WithEqual("category", category).Apply(stmt)
	}
	stmt = option.WithSortBy("created_at", true).Apply(stmt)

	var videos []domain.Video
	if err := stmt.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, query string) ([]domain.Video, error) {
	stmt := db.WithContext(ctx).Model(&domain.Video{})
	stmt = option.WithAnyContains(query, "tag_number", "category", "tag_names").Apply(stmt)
	stmt = option.WithSortBy("created_at", true).Apply(stmt)

	var videos []domain.Video
	if err := stmt.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}
