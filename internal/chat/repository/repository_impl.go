package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/chat/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, chat *domain.Chat) error {
	return db.WithContext(ctx).Create(chat).Error
}

func (r *repo) SaveMessages(ctx context.Context, db *gorm.DB, chat *domain.Chat) error {
	return db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chat.ID).
		Updates(map[string]any{
			"messages":   chat.Messages,
			"updated_at": chat.UpdatedAt,
		}).Error
}

func (r *repo) FindByCustomerID(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*domain.Chat, error) {
	var chat domain.Chat
	err := db.WithContext(ctx).Where("customer_id = ?", customerID).First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *repo) DeleteByCustomerID(ctx context.Context, db *gorm.DB, customerID snowflake.ID) error {
	return db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&domain.Chat{}).Error
}
