package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/sold/domain"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Create(sale).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Save(sale).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Sale, error) {
	var sale domain.Sale
	err := db.WithContext(ctx).Where("id = ?", id).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Sale, error) {
	stmt := db.WithContext(ctx).Model(&domain.Sale{})
	if filter.FullName != "" {
		stmt = option.WithEqual("full_name", filter.FullName).Apply(stmt)
	}
	if filter.Mobile != "" {
		stmt = option.WithEqual("mobile", filter.Mobile).Apply(stmt)
	}
	if filter.Tag != "" {
		stmt = option.WithEqual("tag", filter.Tag).Apply(stmt)
	}
	if filter.SalesStaff != "" {
		stmt = option.WithEqual("sales_staff", filter.SalesStaff).Apply(stmt)
	}
	stmt = option.WithSortBy("created_at", true).Apply(stmt)

	var sales []domain.Sale
	if err := stmt.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
