package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/customer/domain"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Save(customer).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Customer{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	return r.first(db.WithContext(ctx).Where("id = ?", id))
}

func (r *repo) FindByMobile(ctx context.Context, db *gorm.DB, mobile string) (*domain.Customer, error) {
	return r.first(db.WithContext(ctx).Where("mobile = ?", mobile))
}

func (r *repo) first(stmt *gorm.DB) (*domain.Customer, error) {
	var customer domain.Customer
	err := stmt.First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Customer, error) {
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	for field, value := range map[string]string{
		"name":         filter.Name,
		"mobile":       filter.Mobile,
		"status":       filter.Status,
		"seriousness":  filter.Seriousness,
		"salesperson":  filter.Salesperson,
		"product_name": filter.ProductName,
	} {
		if value != "" {
			stmt = option.WithEqual(field, value).Apply(stmt)
		}
	}
	stmt = option.WithSortBy("created_at", true).Apply(stmt)

	var customers []domain.Customer
	if err := stmt.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) SearchByName(ctx context.Context, db *gorm.DB, name string) ([]domain.Customer, error) {
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	stmt = option.WithContains("name", name).Apply(stmt)
	stmt = option.WithSortBy("name", false).Apply(stmt)

	var customers []domain.Customer
	if err := stmt.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) FollowUps(ctx context.Context, db *gorm.DB, window domain.FollowUpWindow) ([]domain.Customer, error) {
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	stmt = option.WithIn("status", domain.FollowUpStatuses).Apply(stmt)
	if window.From != nil {
		stmt = option.ApplyOperator("next_follow_up_date", option.GreaterOrEqual, *window.From).Apply(stmt)
	}
	stmt = option.ApplyOperator("next_follow_up_date", option.LessThan, window.Before).Apply(stmt)
	if window.Salesperson != "" {
		stmt = option.WithEqual("salesperson", window.Salesperson).Apply(stmt)
	}
	stmt = option.WithSortBy("next_follow_up_date", false).Apply(stmt)

	var customers []domain.Customer
	if err := stmt.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
