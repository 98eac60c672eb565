package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/showroom/internal/config"
	"go.uber.org/zap"
)

// Upload areas under the upload root.
const (
	AreaCustomers = "customers"
	AreaSold      = "sold"
	AreaVideos    = "videos"
	AreaOrders    = "orders"
)

// PublicPrefix is how stored paths start; /uploads serves the upload root.
const PublicPrefix = "uploads"

var (
	ErrInvalidPath = errors.New("invalid_upload_path")
	ErrNotFound    = errors.New("upload_not_found")
)

// Local keeps uploads on the local filesystem.
type Local struct {
	root string
	log  *zap.Logger
}

func NewLocal(cfg config.Config, log *zap.Logger) (*Local, error) {
	return NewLocalAt(cfg.UploadDir, log)
}

func NewLocalAt(root string, log *zap.Logger) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		root = PublicPrefix
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Local{root: abs, log: log.Named("storage.local")}, nil
}

// Root is the absolute upload directory.
func (l *Local) Root() string {
	return l.root
}

// SaveFile stores a multipart upload and returns its public path.
func (l *Local) SaveFile(ctx context.Context, area string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNotFound
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return l.Save(ctx, area, fh.Filename, src)
}

// Save writes r as <ulid>-<slug><ext> under area and returns
// "uploads/<area>/<name>".
func (l *Local) Save(ctx context.Context, area, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(l.root, area)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := storedName(filename)
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return path.Join(PublicPrefix, area, name), nil
}

// Remove deletes a stored file. A missing file is not an error.
func (l *Local) Remove(stored string) error {
	if strings.TrimSpace(stored) == "" {
		return nil
	}
	abs, err := l.Resolve(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.log.Warn("remove upload failed", zap.String("path", stored), zap.Error(err))
		return err
	}
	return nil
}

// Open opens a stored file for reading.
func (l *Local) Open(stored string) (*os.File, error) {
	abs, err := l.Resolve(stored)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Resolve maps a stored public path to an absolute path inside the root.
func (l *Local) Resolve(stored string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(stored, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	clean = strings.TrimPrefix(clean, PublicPrefix+"/")
	if clean == "" || clean == "." || clean == PublicPrefix {
		return "", ErrInvalidPath
	}
	abs := filepath.Join(l.root, filepath.FromSlash(clean))
	rel, err := filepath.Rel(l.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return abs, nil
}

func storedName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return ulid.Make().String() + "-" + stem + ext
}
