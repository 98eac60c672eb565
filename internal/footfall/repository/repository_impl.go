package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/showroom/internal/footfall/domain"
	"github.com/smallbiznis/showroom/pkg/db/option"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"username":   record.Username,
			"foot_entry": record.Entries,
			"updated_at": record.UpdatedAt,
		}).Error
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindByUserIDForUpdate reads the record with a row lock held until tx ends.
// SQLite has no row locks; its single writer serializes the transaction.
func (r *repo) FindByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*domain.Record, error) {
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.FindByUserID(ctx, tx, userID)
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Record, error) {
	stmt := db.WithContext(ctx).Model(&domain.Record{})
	if filter.UserID != "" {
		stmt = option.WithEqual("user_id", filter.UserID).Apply(stmt)
	}
	if filter.Username != "" {
		stmt = option.WithEqual("username", filter.Username).Apply(stmt)
	}
	stmt = option.WithSortBy("username", false).Apply(stmt)

	var records []domain.Record
	if err := stmt.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
