package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/sold/domain"
	"github.com/smallbiznis/showroom/internal/sold/receipt"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{1,15}$`)

// FileRemover deletes stored uploads.
type FileRemover interface {
	Remove(stored string) error
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Clock    clock.Clock
	Receipts *receipt.Generator
	Files    FileRemover `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	receipts *receipt.Generator
	files    FileRemover
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("sold.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		receipts: p.Receipts,
		files:    p.Files,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Sale, error) {
	if strings.TrimSpace(req.SoldUpload) == "" {
		return domain.Sale{}, domain.ErrMissingUpload
	}

	now := s.clock.Now()
	sale := domain.Sale{
		ID:          s.genID.Generate(),
		FullName:    req.FullName,
		Mobile:      req.Mobile,
		Email:       strings.TrimSpace(req.Email),
		Birthday:    req.Birthday,
		Anniversary: req.Anniversary,
		Address:     strings.TrimSpace(req.Address),
		Tag:         strings.TrimSpace(req.Tag),
		Purity:      strings.TrimSpace(req.Purity),
		GoldWt:      strings.TrimSpace(req.GoldWt),
		DiaWt:       strings.TrimSpace(req.DiaWt),
		StnWt:       strings.TrimSpace(req.StnWt),
		Amount:      req.Amount,
		SoldUpload:  req.SoldUpload,
		SalesStaff:  strings.TrimSpace(req.SalesStaff),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validate(&sale); err != nil {
		return domain.Sale{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &sale); err != nil {
		return domain.Sale{}, fmt.Errorf("insert sale: %w", err)
	}
	return sale, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Sale, error) {
	filter.FullName = strings.TrimSpace(filter.FullName)
	filter.Mobile = strings.TrimSpace(filter.Mobile)
	filter.Tag = strings.TrimSpace(filter.Tag)
	filter.SalesStaff = strings.TrimSpace(filter.SalesStaff)
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Sale, error) {
	saleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || saleID == 0 {
		return domain.Sale{}, domain.ErrInvalidID
	}
	sale, err := s.repo.FindByID(ctx, s.db, saleID)
	if err != nil {
		return domain.Sale{}, err
	}
	if sale == nil {
		return domain.Sale{}, domain.ErrNotFound
	}
	return *sale, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Sale, error) {
	sale, err := s.Get(ctx, req.ID)
	if err != nil {
		return domain.Sale{}, err
	}
	oldUpload := sale.SoldUpload

	setString(&sale.FullName, req.FullName)
	setString(&sale.Mobile, req.Mobile)
	setString(&sale.Email, req.Email)
	setString(&sale.Address, req.Address)
	setString(&sale.Tag, req.Tag)
	setString(&sale.Purity, req.Purity)
	setString(&sale.GoldWt, req.GoldWt)
	setString(&sale.DiaWt, req.DiaWt)
	setString(&sale.StnWt, req.StnWt)
	if req.Birthday != nil {
		sale.Birthday = req.Birthday
	}
	if req.Anniversary != nil {
		sale.Anniversary = req.Anniversary
	}
	if req.Amount != nil {
		sale.Amount = req.Amount
	}
	if req.SoldUpload != nil && strings.TrimSpace(*req.SoldUpload) != "" {
		sale.SoldUpload = *req.SoldUpload
	}
	if err := validate(&sale); err != nil {
		return domain.Sale{}, err
	}
	sale.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, s.db, &sale); err != nil {
		return domain.Sale{}, fmt.Errorf("update sale: %w", err)
	}
	if oldUpload != sale.SoldUpload && s.files != nil {
		if err := s.files.Remove(oldUpload); err != nil {
			s.log.Warn("remove sold upload failed", zap.String("path", oldUpload), zap.Error(err))
		}
	}
	return sale, nil
}

// Receipt renders the sale as a PDF.
func (s *Service) Receipt(ctx context.Context, id string) ([]byte, error) {
	sale, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.receipts.Render(ctx, receiptData(sale))
}

func receiptData(sale domain.Sale) receipt.Data {
	data := receipt.Data{
		Number:     sale.ID.String(),
		Date:       sale.CreatedAt.Format("02 Jan 2006"),
		Customer:   sale.FullName,
		Mobile:     sale.Mobile,
		Email:      sale.Email,
		Address:    sale.Address,
		SalesStaff: sale.SalesStaff,
		Total:      "-",
	}
	for _, line := range []receipt.Item{
		{Description: "Tag", Value: sale.Tag},
		{Description: "Purity", Value: sale.Purity},
		{Description: "Gold weight", Value: sale.GoldWt},
		{Description: "Diamond weight", Value: sale.DiaWt},
		{Description: "Stone weight", Value: sale.StnWt},
	} {
		if line.Value != "" {
			data.Items = append(data.Items, line)
		}
	}
	if sale.Amount != nil {
		data.Total = strconv.FormatFloat(*sale.Amount, 'f', 2, 64)
	}
	return data
}

func validate(sale *domain.Sale) error {
	sale.FullName = strings.TrimSpace(sale.FullName)
	sale.Mobile = strings.TrimSpace(sale.Mobile)

	switch {
	case sale.FullName == "":
		return domain.ErrInvalidFullName
	case sale.Mobile != "" && !mobilePattern.MatchString(sale.Mobile):
		return domain.ErrInvalidMobile
	case sale.Amount != nil && *sale.Amount < 0:
		return domain.ErrInvalidAmount
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
