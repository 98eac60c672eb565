package repository

import (
	"context"

	"github.com/smallbiznis/showroom/internal/product/domain"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"gorm.io/gorm"
)

const insertBatchSize = 200

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) ([]domain.Product, error) {
	var items []domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})
	stmt = option.WithEqual("jewel_code", code).Apply(stmt)
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ReplaceAll(ctx context.Context, db *gorm.DB, products []*domain.Product) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, insertBatchSize).Error
	})
}
