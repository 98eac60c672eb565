package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, chat *Chat) error
	SaveMessages(ctx context.Context, db *gorm.DB, chat *Chat) error
	FindByCustomerID(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*Chat, error)
	DeleteByCustomerID(ctx context.Context, db *gorm.DB, customerID snowflake.ID) error
}
