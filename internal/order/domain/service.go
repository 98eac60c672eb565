package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	Party          string
	Customer       string
	Karigari       string
	ImageProduct   string
	DeliveryDate   *time.Time
	Quantity       *int
	Salesperson    string
	GoldWeight     string
	GatiOrderNo    string
	ItemCategory   string
	Purity         string
	GoldColor      string
	DiamondDetails string
	StoneDetails   string
	ProductCode    string
	Size           string
	Remarks        string
	Status         string
}

// ListRequest carries the raw query filters. ID must be a valid order id when
// set.
type ListRequest struct {
	ID          string
	OrderNumber string
	Customer    string
	Party       string
	Salesperson string
	Status      string
	Karigari    string
}

// EditRequest changes only the non-nil fields. The order number and
// timestamp cannot be edited.
type EditRequest struct {
	ID             string
	Party          *string
	Customer       *string
	Karigari       *string
	ImageProduct   *string
	DeliveryDate   *time.Time
	Quantity       *int
	Salesperson    *string
	GoldWeight     *string
	GatiOrderNo    *string
	ItemCategory   *string
	Purity         *string
	GoldColor      *string
	DiamondDetails *string
	StoneDetails   *string
	ProductCode    *string
	Size           *string
	Remarks        *string
	Status         *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Order, error)
	List(ctx context.Context, req ListRequest) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) (Order, error)
	Edit(ctx context.Context, req EditRequest) (Order, error)
}

// MasterData manages one list of names offered by the order form.
type MasterData[T any] interface {
	Create(ctx context.Context, name string) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidParty        = errors.New("invalid_party")
	ErrInvalidDeliveryDate = errors.New("invalid_delivery_date")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidGoldWeight   = errors.New("invalid_gold_weight")
	ErrInvalidItemCategory = errors.New("invalid_item_category")
	ErrInvalidPurity       = errors.New("invalid_purity")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrMissingImage        = errors.New("invalid_product_image")
	ErrOrderNumberConflict = errors.New("order_number_conflict")
	ErrNotFound            = errors.New("not_found")

	ErrInvalidName   = errors.New("invalid_name")
	ErrDuplicateName = errors.New("duplicate_name")
)
