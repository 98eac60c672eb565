package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/config"
	"github.com/smallbiznis/showroom/internal/footfall/domain"
	"github.com/smallbiznis/showroom/internal/observability/metrics"
	"github.com/smallbiznis/showroom/internal/ratelimit"
	"github.com/smallbiznis/showroom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Clock    clock.Clock
	Guard    *ratelimit.ImportGuard       `optional:"true"`
	Settings *config.ImportSettingsHolder `optional:"true"`
	Metrics  *metrics.Metrics             `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	guard    *ratelimit.ImportGuard
	settings *config.ImportSettingsHolder
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	settings := p.Settings
	if settings == nil {
		settings = config.NewStaticImportSettings(config.DefaultImportSettings())
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("footfall.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		guard:    p.Guard,
		settings: settings,
		metrics:  p.Metrics,
	}
}

func (s *Service) SaveEntries(ctx context.Context, req domain.SaveEntriesRequest) (domain.Record, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.Record{}, domain.ErrInvalidUserID
	}
	if len(req.Entries) == 0 {
		return domain.Record{}, domain.ErrEmptyEntries
	}

	now := s.clock.Now()
	entries := make([]domain.FootEntry, 0, len(req.Entries))
	for _, in := range req.Entries {
		if in.Footfall < 0 || in.Conversion < 0 {
			return domain.Record{}, domain.ErrInvalidCount
		}
		ts := now
		if in.Timestamp != nil && !in.Timestamp.IsZero() {
			ts = in.Timestamp.UTC()
		}
		entries = append(entries, domain.FootEntry{
			Footfall:   in.Footfall,
			Conversion: in.Conversion,
			PC:         trimmedPtr(in.PC),
			Timestamp:  ts,
		})
	}

	return s.mutate(ctx, userID, req.Username, func(record *domain.Record) error {
		record.Append(entries, now, s.genID.Generate)
		record.UpdatedAt = now
		return nil
	})
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Record, error) {
	filter.UserID = strings.TrimSpace(filter.UserID)
	filter.Username = strings.TrimSpace(filter.Username)

	records, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("list footfall: %w", err)
	}
	return records, nil
}

func (s *Service) UpdateEntry(ctx context.Context, req domain.UpdateEntryRequest) (domain.Record, error) {
	if req.Footfall < 0 || req.Conversion < 0 {
		return domain.Record{}, domain.ErrInvalidCount
	}
	userID, entryID, err := parseEntryRef(req.UserID, req.EntryID)
	if err != nil {
		return domain.Record{}, err
	}
	return s.mutateExisting(ctx, userID, func(record *domain.Record) error {
		entry := record.Entry(entryID)
		if entry == nil {
			return domain.ErrNotFound
		}
		entry.Footfall = req.Footfall
		entry.Conversion = req.Conversion
		record.UpdatedAt = s.clock.Now()
		return nil
	})
}

func (s *Service) DeleteEntry(ctx context.Context, req domain.DeleteEntryRequest) (domain.Record, error) {
	userID, entryID, err := parseEntryRef(req.UserID, req.EntryID)
	if err != nil {
		return domain.Record{}, err
	}
	return s.mutateExisting(ctx, userID, func(record *domain.Record) error {
		if !record.RemoveEntry(entryID) {
			return domain.ErrNotFound
		}
		record.UpdatedAt = s.clock.Now()
		return nil
	})
}

func parseEntryRef(userID, entryID string) (string, snowflake.ID, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", 0, domain.ErrInvalidUserID
	}
	id, err := snowflake.ParseString(strings.TrimSpace(entryID))
	if err != nil || id == 0 {
		return "", 0, domain.ErrInvalidEntryID
	}
	return userID, id, nil
}

// mutate applies fn to the record of userID, creating it when missing, and
// writes it back in the same transaction. The row stays locked between the
// read and the write so concurrent writers for one user cannot drop entries.
func (s *Service) mutate(ctx context.Context, userID, username string, fn func(*domain.Record) error) (domain.Record, error) {
	record, err := s.mutateTx(ctx, userID, username, true, fn)
	if err != nil && db.IsDuplicateKeyErr(err) {
		// another writer created the record first; it can be locked now
		record, err = s.mutateTx(ctx, userID, username, true, fn)
	}
	return record, err
}

func (s *Service) mutateExisting(ctx context.Context, userID string, fn func(*domain.Record) error) (domain.Record, error) {
	return s.mutateTx(ctx, userID, "", false, fn)
}

func (s *Service) mutateTx(ctx context.Context, userID, username string, create bool, fn func(*domain.Record) error) (domain.Record, error) {
	var out domain.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByUserIDForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load footfall %s: %w", userID, err)
		}
		created := false
		if record == nil {
			if !create {
				return domain.ErrNotFound
			}
			record, created = s.newRecord(userID, username), true
		}
		if err := fn(record); err != nil {
			return err
		}
		if err := s.persist(ctx, tx, record, created); err != nil {
			return err
		}
		out = *record
		return nil
	})
	if err != nil {
		return domain.Record{}, err
	}
	return out, nil
}

// newRecord returns an unsaved record for userID.
func (s *Service) newRecord(userID, username string) *domain.Record {
	username = strings.TrimSpace(username)
	if username == "" {
		username = domain.UnknownUsername
	}
	now := s.clock.Now()
	return &domain.Record{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Username:  username,
		Entries:   []domain.FootEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) persist(ctx context.Context, tx *gorm.DB, record *domain.Record, created bool) error {
	if created {
		if err := s.repo.Insert(ctx, tx, record); err != nil {
			return fmt.Errorf("insert footfall %s: %w", record.UserID, err)
		}
		return nil
	}
	if err := s.repo.Save(ctx, tx, record); err != nil {
		return fmt.Errorf("save footfall %s: %w", record.UserID, err)
	}
	return nil
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
