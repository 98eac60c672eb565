package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	chatdomain "github.com/smallbiznis/showroom/internal/chat/domain"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/customer/domain"
	"github.com/smallbiznis/showroom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// FileRemover deletes stored uploads.
type FileRemover interface {
	Remove(stored string) error
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Day   *clock.BusinessDay
	Chats chatdomain.Service
	Files FileRemover `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	day   *clock.BusinessDay
	chats chatdomain.Service
	files FileRemover
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		day:   p.Day,
		chats: p.Chats,
		files: p.Files,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Customer, error) {
	if strings.TrimSpace(req.ProductImage) == "" {
		return domain.Customer{}, domain.ErrMissingImage
	}
	if req.Price == nil {
		return domain.Customer{}, domain.ErrInvalidPrice
	}

	now := s.day.Now()
	customer := domain.Customer{
		ID:           s.genID.Generate(),
		Name:         req.Name,
		Mobile:       req.Mobile,
		ProductName:  req.ProductName,
		Price:        *req.Price,
		ProductImage: req.ProductImage,
		Conversation: strings.TrimSpace(req.Conversation),
		Salesperson:  req.Salesperson,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.NextFollowUpDate != nil {
		t := req.NextFollowUpDate.UTC()
		customer.NextFollowUpDate = &t
	}

	var err error
	if customer.Status, err = domain.ParseStatus(req.Status); err != nil {
		return domain.Customer{}, err
	}
	if customer.Seriousness, err = domain.ParseSeriousness(req.Seriousness); err != nil {
		return domain.Customer{}, err
	}
	if err := validate(&customer); err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.repo.FindByMobile(ctx, s.db, customer.Mobile)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing != nil {
		return domain.Customer{}, domain.ErrDuplicateMobile
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrDuplicateMobile
		}
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	if customer.Conversation != "" {
		if _, err := s.chats.AddMessage(ctx, customer.ID.String(), customer.Conversation); err != nil {
			return domain.Customer{}, fmt.Errorf("seed chat: %w", err)
		}
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Customer, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Mobile = strings.TrimSpace(filter.Mobile)
	filter.Salesperson = strings.TrimSpace(filter.Salesperson)
	filter.ProductName = strings.TrimSpace(filter.ProductName)
	if filter.Status != "" {
		st, err := domain.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = string(st)
	}
	if filter.Seriousness != "" {
		se, err := domain.ParseSeriousness(filter.Seriousness)
		if err != nil {
			return nil, err
		}
		filter.Seriousness = string(se)
	}
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}
	customer, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Customer, error) {
	customer, err := s.Get(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	oldImage := customer.ProductImage

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Mobile != nil {
		customer.Mobile = *req.Mobile
	}
	if req.ProductName != nil {
		customer.ProductName = *req.ProductName
	}
	if req.Price != nil {
		customer.Price = *req.Price
	}
	if req.NextFollowUpDate != nil {
		t := req.NextFollowUpDate.UTC()
		customer.NextFollowUpDate = &t
	}
	if req.Status != nil {
		if customer.Status, err = domain.ParseStatus(*req.Status); err != nil {
			return domain.Customer{}, err
		}
	}
	if req.Seriousness != nil {
		if customer.Seriousness, err = domain.ParseSeriousness(*req.Seriousness); err != nil {
			return domain.Customer{}, err
		}
	}
	if req.Conversation != nil {
		customer.Conversation = strings.TrimSpace(*req.Conversation)
	}
	if req.Salesperson != nil {
		customer.Salesperson = *req.Salesperson
	}
	if req.ProductImage != nil && strings.TrimSpace(*req.ProductImage) != "" {
		customer.ProductImage = *req.ProductImage
	}
	if err := validate(&customer); err != nil {
		return domain.Customer{}, err
	}
	customer.UpdatedAt = s.day.Now()

	if err := s.repo.Save(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrDuplicateMobile
		}
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	if oldImage != customer.ProductImage {
		s.removeFile(oldImage)
	}
	return customer, nil
}

// Delete removes the customer together with its chat and image.
func (s *Service) Delete(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := s.repo.Delete(ctx, s.db, customer.ID); err != nil {
		return domain.Customer{}, err
	}
	if err := s.chats.DeleteForCustomer(ctx, customer.ID.String()); err != nil {
		s.log.Warn("delete customer chat failed", zap.String("customer_id", customer.ID.String()), zap.Error(err))
	}
	s.removeFile(customer.ProductImage)
	return customer, nil
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	return s.repo.SearchByName(ctx, s.db, name)
}

// FollowUpsToday lists open or cold customers due between local midnight and
// the next local midnight.
func (s *Service) FollowUpsToday(ctx context.Context, salesperson string) ([]domain.Customer, error) {
	start, end := s.day.TodayRange()
	return s.repo.FollowUps(ctx, s.db, domain.FollowUpWindow{
		From:        &start,
		Before:      end,
		Salesperson: strings.TrimSpace(salesperson),
	})
}

// FollowUpsMissed lists open or cold customers due before local midnight.
func (s *Service) FollowUpsMissed(ctx context.Context, salesperson string) ([]domain.Customer, error) {
	start, _ := s.day.TodayRange()
	return s.repo.FollowUps(ctx, s.db, domain.FollowUpWindow{
		Before:      start,
		Salesperson: strings.TrimSpace(salesperson),
	})
}

func (s *Service) removeFile(stored string) {
	if s.files == nil || stored == "" {
		return
	}
	if err := s.files.Remove(stored); err != nil {
		s.log.Warn("remove customer image failed", zap.String("path", stored), zap.Error(err))
	}
}

func validate(c *domain.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Mobile = strings.TrimSpace(c.Mobile)
	c.ProductName = strings.TrimSpace(c.ProductName)
	c.Salesperson = strings.TrimSpace(c.Salesperson)

	switch {
	case c.Name == "":
		return domain.ErrInvalidName
	case !mobilePattern.MatchString(c.Mobile):
		return domain.ErrInvalidMobile
	case c.ProductName == "":
		return domain.ErrInvalidProductName
	case c.Price < 0:
		return domain.ErrInvalidPrice
	case c.Salesperson == "":
		return domain.ErrInvalidSalesperson
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

