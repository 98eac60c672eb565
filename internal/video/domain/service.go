package domain

import (
	"context"
	"errors"
	"os"
)

// SearchRequest picks the first non-blank of its fields as the search term.
type SearchRequest struct {
	TagNumber string
	Category  string
	Tags      string
	Query     string
}

func (r SearchRequest) Term() string {
	for _, v := range []string{r.TagNumber, r.Category, r.Tags, r.Query} {
		if v != "" {
			return v
		}
	}
	return ""
}

type CreateRequest struct {
	TagNumber   string
	Category    string
	Tags        []Tag
	VideoUpload string
}

type Service interface {
	List(ctx context.Context) ([]Video, error)
	Search(ctx context.Context, req SearchRequest) ([]Video, error)
	ByCategory(ctx context.Context, category string) ([]Video, error)
	Create(ctx context.Context, req CreateRequest) (Video, error)
	Delete(ctx context.Context, id string) (Video, error)
	Open(ctx context.Context, id string) (Video, *os.File, error)
	FindByIDs(ctx context.Context, ids []string) ([]Video, error)
}

var (
	ErrInvalidID          = errors.New("invalid_video_id")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrEmptySearch        = errors.New("invalid_search_query")
	ErrMissingUpload      = errors.New("invalid_video_upload")
	ErrDuplicateTagNumber = errors.New("duplicate_tag_number")
	ErrNotFound           = errors.New("video_not_found")
	ErrFileNotFound       = errors.New("video_file_not_found")
)
