package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	FullName   string
	Mobile     string
	Tag        string
	SalesStaff string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sale *Sale) error
	Save(ctx context.Context, db *gorm.DB, sale *Sale) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Sale, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Sale, error)
}
