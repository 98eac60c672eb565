package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	UserID   string
	Username string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	Save(ctx context.Context, db *gorm.DB, record *Record) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*Record, error)
	FindByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*Record, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Record, error)
}
