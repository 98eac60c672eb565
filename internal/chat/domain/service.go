package domain

import (
	"context"
	"errors"
)

type Service interface {
	Get(ctx context.Context, customerID string) (View, error)
	AddMessage(ctx context.Context, customerID, message string) (View, error)
	UpdateMessage(ctx context.Context, customerID, messageID, message string) (View, error)
	DeleteMessage(ctx context.Context, customerID, messageID string) (View, error)
	DeleteForCustomer(ctx context.Context, customerID string) error
}

var (
	ErrInvalidCustomerID = errors.New("invalid_customer_id")
	ErrInvalidMessageID  = errors.New("invalid_message_id")
	ErrEmptyMessage      = errors.New("invalid_message")
	ErrCustomerNotFound  = errors.New("customer_not_found")
	ErrNotFound          = errors.New("not_found")
	ErrMessageNotFound   = errors.New("message_not_found")
)
