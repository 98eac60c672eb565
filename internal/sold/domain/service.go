package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	FullName    string
	Mobile      string
	Email       string
	Birthday    *time.Time
	Anniversary *time.Time
	Address     string
	Tag         string
	Purity      string
	GoldWt      string
	DiaWt       string
	StnWt       string
	Amount      *float64
	SoldUpload  string
	SalesStaff  string
}

// UpdateRequest changes only the non-nil fields. The sales staff is fixed at
// creation.
type UpdateRequest struct {
	ID          string
	FullName    *string
	Mobile      *string
	Email       *string
	Birthday    *time.Time
	Anniversary *time.Time
	Address     *string
	Tag         *string
	Purity      *string
	GoldWt      *string
	DiaWt       *string
	StnWt       *string
	Amount      *float64
	SoldUpload  *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Sale, error)
	List(ctx context.Context, filter ListFilter) ([]Sale, error)
	Get(ctx context.Context, id string) (Sale, error)
	Update(ctx context.Context, req UpdateRequest) (Sale, error)
	Receipt(ctx context.Context, id string) ([]byte, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidFullName = errors.New("invalid_full_name")
	ErrInvalidMobile   = errors.New("invalid_mobile")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrMissingUpload   = errors.New("invalid_soldupload")
	ErrNotFound        = errors.New("not_found")
)
