package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, video *Video) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Video, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Video, error)
	List(ctx context.Context, db *gorm.DB, category string) ([]Video, error)
	Search(ctx context.Context, db *gorm.DB, query string) ([]Video, error)
}
