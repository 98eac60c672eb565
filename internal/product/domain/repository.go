package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByCode(ctx context.Context, db *gorm.DB, code string) ([]Product, error)
	// ReplaceAll deletes every product and inserts products in one transaction.
	ReplaceAll(ctx context.Context, db *gorm.DB, products []*Product) error
}
