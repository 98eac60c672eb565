package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/order/domain"
	"github.com/smallbiznis/showroom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

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
	Clock clock.Clock
	Files FileRemover `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
	files FileRemover
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("order.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
		files: p.Files,
	}
}

// Create numbers the order after the highest existing number. The uploaded
// image is removed when the order cannot be stored.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (order domain.Order, err error) {
	if strings.TrimSpace(req.ImageProduct) == "" {
		return domain.Order{}, domain.ErrMissingImage
	}
	defer func() {
		if err != nil {
			s.removeFile(req.ImageProduct)
		}
	}()

	order = domain.Order{
		ID:             s.genID.Generate(),
		Party:          req.Party,
		Customer:       req.Customer,
		Karigari:       req.Karigari,
		ImageProduct:   req.ImageProduct,
		Salesperson:    req.Salesperson,
		GoldWeight:     req.GoldWeight,
		GatiOrderNo:    req.GatiOrderNo,
		ItemCategory:   req.ItemCategory,
		Purity:         req.Purity,
		GoldColor:      req.GoldColor,
		DiamondDetails: req.DiamondDetails,
		StoneDetails:   req.StoneDetails,
		ProductCode:    req.ProductCode,
		Size:           req.Size,
		Remarks:        req.Remarks,
		Timestamp:      s.clock.Now(),
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate.UTC()
	}
	if req.Quantity != nil {
		order.Quantity = *req.Quantity
	}
	if order.Status, err = domain.ParseStatus(req.Status); err != nil {
		return domain.Order{}, err
	}
	if err = validate(&order); err != nil {
		return domain.Order{}, err
	}

	last, err := s.repo.LastOrderNumber(ctx, s.db)
	if err != nil {
		return domain.Order{}, fmt.Errorf("last order number: %w", err)
	}
	order.OrderNumber = domain.NextOrderNumber(last)

	if err = s.repo.Insert(ctx, s.db, &order); err != nil {
		if db.IsDuplicateKeyErr(err) {
			s.log.Warn("order number conflict", zap.String("order_number", order.OrderNumber))
			return domain.Order{}, domain.ErrOrderNumberConflict
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Order, error) {
	filter := domain.ListFilter{
		OrderNumber: req.OrderNumber,
		Customer:    req.Customer,
		Party:       req.Party,
		Salesperson: req.Salesperson,
		Status:      req.Status,
		Karigari:    req.Karigari,
	}
	if strings.TrimSpace(req.ID) != "" {
		id, err := parseID(req.ID)
		if err != nil {
			return nil, err
		}
		filter.ID = id
	}
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	if strings.TrimSpace(status) == "" {
		return domain.Order{}, domain.ErrInvalidStatus
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Order{}, err
	}
	order, err := s.get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = st
	if err := s.repo.Save(ctx, s.db, &order); err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

// Edit applies a partial update. A new image replaces the old one, which is
// then removed.
func (s *Service) Edit(ctx context.Context, req domain.EditRequest) (domain.Order, error) {
	newImage := ""
	if req.ImageProduct != nil {
		newImage = strings.TrimSpace(*req.ImageProduct)
	}

	order, err := s.get(ctx, req.ID)
	if err != nil {
		s.removeFile(newImage)
		return domain.Order{}, err
	}
	oldImage := order.ImageProduct

	set(&order.Party, req.Party)
	set(&order.Customer, req.Customer)
	set(&order.Karigari, req.Karigari)
	set(&order.Salesperson, req.Salesperson)
	set(&order.GoldWeight, req.GoldWeight)
	set(&order.GatiOrderNo, req.GatiOrderNo)
	set(&order.ItemCategory, req.ItemCategory)
	set(&order.Purity, req.Purity)
	set(&order.GoldColor, req.GoldColor)
	set(&order.DiamondDetails, req.DiamondDetails)
	set(&order.StoneDetails, req.StoneDetails)
	set(&order.ProductCode, req.ProductCode)
	set(&order.Size, req.Size)
	set(&order.Remarks, req.Remarks)
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate.UTC()
	}
	if req.Quantity != nil {
		order.Quantity = *req.Quantity
	}
	if req.Status != nil {
		if order.Status, err = domain.ParseStatus(*req.Status); err != nil {
			s.removeFile(newImage)
			return domain.Order{}, err
		}
	}
	if newImage != "" {
		order.ImageProduct = newImage
	}
	if err := validate(&order); err != nil {
		s.removeFile(newImage)
		return domain.Order{}, err
	}

	if err := s.repo.Save(ctx, s.db, &order); err != nil {
		s.removeFile(newImage)
		return domain.Order{}, fmt.Errorf("edit order: %w", err)
	}
	if newImage != "" && oldImage != newImage {
		s.removeFile(oldImage)
	}
	return order, nil
}

func (s *Service) get(ctx context.Context, id string) (domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.Order{}, err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	return *order, nil
}

func (s *Service) removeFile(stored string) {
	if s.files == nil || stored == "" {
		return
	}
	if err := s.files.Remove(stored); err != nil {
		s.log.Warn("remove order image failed", zap.String("path", stored), zap.Error(err))
	}
}

func validate(o *domain.Order) error {
	o.Party = strings.TrimSpace(o.Party)
	o.GoldWeight = strings.TrimSpace(o.GoldWeight)
	o.ItemCategory = strings.TrimSpace(o.ItemCategory)
	o.Purity = strings.TrimSpace(o.Purity)

	switch {
	case o.Party == "":
		return domain.ErrInvalidParty
	case o.DeliveryDate.IsZero():
		return domain.ErrInvalidDeliveryDate
	case o.Quantity <= 0:
		return domain.ErrInvalidQuantity
	case o.GoldWeight == "":
		return domain.ErrInvalidGoldWeight
	case o.ItemCategory == "":
		return domain.ErrInvalidItemCategory
	case o.Purity == "":
		return domain.ErrInvalidPurity
	}
	return nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
