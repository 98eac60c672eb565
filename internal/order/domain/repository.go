package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter matches case-insensitive substrings, except ID which is exact.
type ListFilter struct {
	ID          snowflake.ID
	OrderNumber string
	Customer    string
	Party       string
	Salesperson string
	Status      string
	Karigari    string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	Save(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Order, error)
	LastOrderNumber(ctx context.Context, db *gorm.DB) (string, error)
}
