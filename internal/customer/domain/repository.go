package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Name        string
	Mobile      string
	Status      string
	Seriousness string
	Salesperson string
	ProductName string
}

// FollowUpWindow selects follow-ups due in [From, Before). A nil From is
// unbounded.
type FollowUpWindow struct {
	From        *time.Time
	Before      time.Time
	Salesperson string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	Save(ctx context.Context, db *gorm.DB, customer *Customer) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	FindByMobile(ctx context.Context, db *gorm.DB, mobile string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Customer, error)
	SearchByName(ctx context.Context, db *gorm.DB, name string) ([]Customer, error)
	FollowUps(ctx context.Context, db *gorm.DB, window FollowUpWindow) ([]Customer, error)
}
