package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/sharelink/domain"
	videodomain "github.com/smallbiznis/showroom/internal/video/domain"
	"github.com/smallbiznis/showroom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Videos videodomain.Service
	Clock  clock.Clock
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	videos videodomain.Service
	clock  clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("sharelink.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		videos: p.Videos,
		clock:  p.Clock,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (domain.Link, error) {
	if len(req.VideoIDs) == 0 {
		return domain.Link{}, domain.ErrEmptyVideoIDs
	}
	if req.ExpiryDate == nil || req.ExpiryDate.IsZero() {
		return domain.Link{}, domain.ErrMissingExpiry
	}
	ids, err := parseVideoIDs(req.VideoIDs)
	if err != nil {
		return domain.Link{}, err
	}

	token, err := newToken()
	if err != nil {
		return domain.Link{}, fmt.Errorf("generate token: %w", err)
	}

	link := domain.Link{
		ID:           s.genID.Generate(),
		Token:        token,
		VideoIDs:     ids,
		ExpiryDate:   req.ExpiryDate.UTC(),
		CustomerName: strings.TrimSpace(req.CustomerName),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.InsertLink(ctx, s.db, &link); err != nil {
		return domain.Link{}, fmt.Errorf("insert share link: %w", err)
	}
	s.log.Info("share link generated",
		zap.String("link_id", link.ID.String()),
		zap.Int("videos", len(ids)),
		zap.Time("expires", link.ExpiryDate),
	)
	return link, nil
}

// Videos resolves a live token to its videos. Unknown and expired tokens both
// fail.
func (s *Service) Videos(ctx context.Context, token string) ([]videodomain.Video, error) {
	link, err := s.liveLink(ctx, token)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(link.VideoIDs))
	for _, id := range link.VideoIDs {
		ids = append(ids, id.String())
	}
	return s.videos.FindByIDs(ctx, ids)
}

func (s *Service) ListLinks(ctx context.Context) ([]domain.Link, error) {
	return s.repo.ListLinks(ctx, s.db)
}

// PurgeExpired keeps favorites; they stay listable after their link is gone.
func (s *Service) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	if retention < 0 {
		retention = 0
	}
	cutoff := s.clock.Now().Add(-retention)
	deleted, err := s.repo.DeleteLinksExpiredBefore(ctx, s.db, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge share links: %w", err)
	}
	if deleted > 0 {
		s.log.Info("expired share links purged", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

// AddFavorite stores the customer's picks under the link's token and copies
// the customer name from the link.
func (s *Service) AddFavorite(ctx context.Context, req domain.FavoriteRequest) (domain.Favorite, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return domain.Favorite{}, domain.ErrMissingToken
	}
	if len(req.VideoIDs) == 0 {
		return domain.Favorite{}, domain.ErrEmptyVideoIDs
	}
	ids, err := parseVideoIDs(req.VideoIDs)
	if err != nil {
		return domain.Favorite{}, err
	}

	link, err := s.repo.FindLinkByToken(ctx, s.db, token)
	if err != nil {
		return domain.Favorite{}, err
	}
	if link == nil {
		return domain.Favorite{}, domain.ErrLinkNotFound
	}

	fav := domain.Favorite{
		ID:           s.genID.Generate(),
		Token:        token,
		FavVideoIDs:  ids,
		CustomerName: link.CustomerName,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.InsertFavorite(ctx, s.db, &fav); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Favorite{}, domain.ErrFavoriteExists
		}
		return domain.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}
	return fav, nil
}

func (s *Service) ListFavorites(ctx context.Context, customerName string) ([]domain.Favorite, error) {
	return s.repo.ListFavorites(ctx, s.db, strings.TrimSpace(customerName))
}

func (s *Service) DeleteFavorite(ctx context.Context, id string) (domain.Favorite, error) {
	favID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || favID == 0 {
		return domain.Favorite{}, domain.ErrInvalidFavoriteID
	}
	fav, err := s.repo.FindFavoriteByID(ctx, s.db, favID)
	if err != nil {
		return domain.Favorite{}, err
	}
	if fav == nil {
		return domain.Favorite{}, domain.ErrFavoriteNotFound
	}
	if err := s.repo.DeleteFavorite(ctx, s.db, favID); err != nil {
		return domain.Favorite{}, fmt.Errorf("delete favorite: %w", err)
	}
	return *fav, nil
}

func (s *Service) liveLink(ctx context.Context, token string) (*domain.Link, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrLinkNotFound
	}
	link, err := s.repo.FindLinkByToken(ctx, s.db, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}
	if link.Expired(s.clock.Now()) {
		return nil, domain.ErrLinkExpired
	}
	return link, nil
}

func parseVideoIDs(raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, v := range raw {
		id, err := snowflake.ParseString(strings.TrimSpace(v))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidVideoID
		}
		ids = append(ids, id)
	}
	return ids, nil
}
