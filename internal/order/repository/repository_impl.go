package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/order/domain"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Save(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Order, error) {
	stmt := db.WithContext(ctx).Model(&domain.Order{})
	if filter.ID != 0 {
		stmt = option.WithEqual("id", filter.ID).Apply(stmt)
	}
	for field, value := range map[string]string{
		"order_number": filter.OrderNumber,
		"customer":     filter.Customer,
		"party":        filter.Party,
		"salesperson":  filter.Salesperson,
		"status":       filter.Status,
		"karigari":     filter.Karigari,
	} {
		stmt = option.WithContains(field, value).Apply(stmt)
	}
	stmt = option.WithSortBy("timestamp", true).Apply(stmt)

	var orders []domain.Order
	if err := stmt.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// LastOrderNumber returns the numerically highest order number, or "" when
// there are no orders.
func (r *repo) LastOrderNumber(ctx context.Context, db *gorm.DB) (string, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Order("LENGTH(order_number) DESC").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}
