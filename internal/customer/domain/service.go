package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	Name             string
	Mobile           string
	ProductName      string
	Price            *float64
	NextFollowUpDate *time.Time
	Status           string
	Seriousness      string
	Conversation     string
	Salesperson      string
	ProductImage     string
}

// UpdateRequest changes only the non-nil fields.
type UpdateRequest struct {
	ID               string
	Name             *string
	Mobile           *string
	ProductName      *string
	Price            *float64
	NextFollowUpDate *time.Time
	Status           *string
	Seriousness      *string
	Conversation     *string
	Salesperson      *string
	ProductImage     *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Customer, error)
	List(ctx context.Context, filter ListFilter) ([]Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	Update(ctx context.Context, req UpdateRequest) (Customer, error)
	Delete(ctx context.Context, id string) (Customer, error)
	SearchByName(ctx context.Context, name string) ([]Customer, error)
	FollowUpsToday(ctx context.Context, salesperson string) ([]Customer, error)
	FollowUpsMissed(ctx context.Context, salesperson string) ([]Customer, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidMobile      = errors.New("invalid_mobile")
	ErrInvalidProductName = errors.New("invalid_product_name")
	ErrInvalidPrice       = errors.New("invalid_price")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidSeriousness = errors.New("invalid_seriousness")
	ErrInvalidSalesperson = errors.New("invalid_salesperson")
	ErrMissingImage       = errors.New("invalid_product_image")
	ErrDuplicateMobile    = errors.New("duplicate_mobile")
	ErrNotFound           = errors.New("not_found")
)
