package repository

import (
	"context"

	"github.com/smallbiznis/showroom/pkg/db/option"
)

// Repository is a generic gorm-backed store for small lookup tables keyed
// by an `id` column.
type Repository[T any] interface {
	Find(ctx context.Context, filter *T, opts ...option.QueryOption) ([]*T, error)
	Create(ctx context.Context, resource *T) error
	// Delete reports how many rows were removed so callers can tell a
	// missing id from a successful delete.
	Delete(ctx context.Context, id any) (int64, error)
}
