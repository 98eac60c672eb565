package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/chat/domain"
	"github.com/smallbiznis/showroom/internal/clock"
	customerdomain "github.com/smallbiznis/showroom/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Customers customerdomain.Repository
	Clock     clock.Clock
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	customers customerdomain.Repository
	clock     clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("chat.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		customers: p.Customers,
		clock:     p.Clock,
	}
}

func (s *Service) Get(ctx context.Context, customerID string) (domain.View, error) {
	id, err := parseID(customerID, domain.ErrInvalidCustomerID)
	if err != nil {
		return domain.View{}, err
	}
	chat, err := s.repo.FindByCustomerID(ctx, s.db, id)
	if err != nil {
		return domain.View{}, err
	}
	if chat == nil {
		return domain.View{}, domain.ErrNotFound
	}
	return s.view(ctx, chat)
}

// AddMessage appends to the customer's chat, creating the chat on first use.
func (s *Service) AddMessage(ctx context.Context, customerID, message string) (domain.View, error) {
	id, err := parseID(customerID, domain.ErrInvalidCustomerID)
	if err != nil {
		return domain.View{}, err
	}
	text := strings.TrimSpace(message)
	if text == "" {
		return domain.View{}, domain.ErrEmptyMessage
	}

	customer, err := s.customers.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.View{}, err
	}
	if customer == nil {
		return domain.View{}, domain.ErrCustomerNotFound
	}

	now := s.clock.Now()
	msg := domain.Message{ID: s.genID.Generate(), Message: text, Timestamp: now}

	chat, err := s.repo.FindByCustomerID(ctx, s.db, id)
	if err != nil {
		return domain.View{}, err
	}
	if chat == nil {
		chat = &domain.Chat{
			ID:         s.genID.Generate(),
			CustomerID: id,
			Messages:   []domain.Message{msg},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Insert(ctx, s.db, chat); err != nil {
			return domain.View{}, fmt.Errorf("create chat: %w", err)
		}
		return domain.View{Chat: *chat, Customer: summary(customer)}, nil
	}

	chat.Messages = append(chat.Messages, msg)
	chat.UpdatedAt = now
	if err := s.repo.SaveMessages(ctx, s.db, chat); err != nil {
		return domain.View{}, fmt.Errorf("append message: %w", err)
	}
	return domain.View{Chat: *chat, Customer: summary(customer)}, nil
}

func (s *Service) UpdateMessage(ctx context.Context, customerID, messageID, message string) (domain.View, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return domain.View{}, domain.ErrEmptyMessage
	}
	chat, msgID, err := s.load(ctx, customerID, messageID)
	if err != nil {
		return domain.View{}, err
	}

	now := s.clock.Now()
	if !chat.Edit(msgID, text, now) {
		return domain.View{}, domain.ErrMessageNotFound
	}
	chat.UpdatedAt = now
	if err := s.repo.SaveMessages(ctx, s.db, chat); err != nil {
		return domain.View{}, fmt.Errorf("update message: %w", err)
	}
	return s.view(ctx, chat)
}

// DeleteMessage removes a message. Removing an unknown message id leaves the
// chat unchanged.
func (s *Service) DeleteMessage(ctx context.Context, customerID, messageID string) (domain.View, error) {
	chat, msgID, err := s.load(ctx, customerID, messageID)
	if err != nil {
		return domain.View{}, err
	}
	if chat.Remove(msgID) {
		chat.UpdatedAt = s.clock.Now()
		if err := s.repo.SaveMessages(ctx, s.db, chat); err != nil {
			return domain.View{}, fmt.Errorf("delete message: %w", err)
		}
	}
	return s.view(ctx, chat)
}

func (s *Service) DeleteForCustomer(ctx context.Context, customerID string) error {
	id, err := parseID(customerID, domain.ErrInvalidCustomerID)
	if err != nil {
		return err
	}
	return s.repo.DeleteByCustomerID(ctx, s.db, id)
}

func (s *Service) load(ctx context.Context, customerID, messageID string) (*domain.Chat, snowflake.ID, error) {
	id, err := parseID(customerID, domain.ErrInvalidCustomerID)
	if err != nil {
		return nil, 0, err
	}
	msgID, err := parseID(messageID, domain.ErrInvalidMessageID)
	if err != nil {
		return nil, 0, err
	}
	chat, err := s.repo.FindByCustomerID(ctx, s.db, id)
	if err != nil {
		return nil, 0, err
	}
	if chat == nil {
		return nil, 0, domain.ErrNotFound
	}
	return chat, msgID, nil
}

func (s *Service) view(ctx context.Context, chat *domain.Chat) (domain.View, error) {
	customer, err := s.customers.FindByID(ctx, s.db, chat.CustomerID)
	if err != nil {
		return domain.View{}, err
	}
	return domain.View{Chat: *chat, Customer: summary(customer)}, nil
}

func summary(c *customerdomain.Customer) *domain.CustomerSummary {
	if c == nil {
		return nil
	}
	return &domain.CustomerSummary{
		ID:          c.ID,
		Name:        c.Name,
		Mobile:      c.Mobile,
		ProductName: c.ProductName,
		Price:       c.Price,
		Seriousness: string(c.Seriousness),
	}
}

func parseID(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invalid
	}
	return id, nil
}
