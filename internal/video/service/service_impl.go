package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/storage"
	"github.com/smallbiznis/showroom/internal/video/domain"
	"github.com/smallbiznis/showroom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileStore opens and deletes stored uploads.
type FileStore interface {
	Open(stored string) (*os.File, error)
	Remove(stored string) error
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
	Files FileStore
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
	files FileStore
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("video.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
		files: p.Files,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Video, error) {
	return s.repo.List(ctx, s.db, "")
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Video, error) {
	term := strings.TrimSpace(req.Term())
	if term == "" {
		return nil, domain.ErrEmptySearch
	}
	return s.repo.Search(ctx, s.db, term)
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Video, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrInvalidCategory
	}
	return s.repo.List(ctx, s.db, category)
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Video, error) {
	if strings.TrimSpace(req.VideoUpload) == "" {
		return domain.Video{}, domain.ErrMissingUpload
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Video{}, domain.ErrInvalidCategory
	}

	video := domain.Video{
		ID:          s.genID.Generate(),
		VideoUpload: req.VideoUpload,
		Category:    category,
		Tags:        req.Tags,
		CreatedAt:   s.clock.Now(),
	}
	if video.Tags == nil {
		video.Tags = []domain.Tag{}
	}
	if tagNumber := strings.TrimSpace(req.TagNumber); tagNumber != "" {
		video.TagNumber = &tagNumber
	}

	if err := s.repo.Insert(ctx, s.db, &video); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Video{}, domain.ErrDuplicateTagNumber
		}
		return domain.Video{}, fmt.Errorf("insert video: %w", err)
	}
	return video, nil
}

// Delete removes the stored file first, then the record.
func (s *Service) Delete(ctx context.Context, id string) (domain.Video, error) {
	video, err := s.find(ctx, id)
	if err != nil {
		return domain.Video{}, err
	}
	if err := s.files.Remove(video.VideoUpload); err != nil {
		return domain.Video{}, fmt.Errorf("remove video file: %w", err)
	}
	if err := s.repo.Delete(ctx, s.db, video.ID); err != nil {
		return domain.Video{}, fmt.Errorf("delete video: %w", err)
	}
	return video, nil
}

// Open returns the video with its file opened for streaming. The caller closes
// the file.
func (s *Service) Open(ctx context.Context, id string) (domain.Video, *os.File, error) {
	video, err := s.find(ctx, id)
	if err != nil {
		return domain.Video{}, nil, err
	}
	if video.VideoUpload == "" {
		return domain.Video{}, nil, domain.ErrFileNotFound
	}
	f, err := s.files.Open(video.VideoUpload)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warn("video file missing", zap.String("video_id", video.ID.String()), zap.String("path", video.VideoUpload))
		return domain.Video{}, nil, domain.ErrFileNotFound
	}
	if err != nil {
		return domain.Video{}, nil, err
	}
	return video, f, nil
}

// FindByIDs loads the videos named by ids. Unknown ids are ignored.
func (s *Service) FindByIDs(ctx context.Context, ids []string) ([]domain.Video, error) {
	parsed := make([]snowflake.ID, 0, len(ids))
	for _, raw := range ids {
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, id)
	}
	return s.repo.FindByIDs(ctx, s.db, parsed)
}

func (s *Service) find(ctx context.Context, id string) (domain.Video, error) {
	videoID, err := parseID(id)
	if err != nil {
		return domain.Video{}, err
	}
	video, err := s.repo.FindByID(ctx, s.db, videoID)
	if err != nil {
		return domain.Video{}, err
	}
	if video == nil {
		return domain.Video{}, domain.ErrNotFound
	}
	return *video, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
