package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/smallbiznis/showroom/internal/csvimport"
)

const tempPattern = "showroom-import-*.csv"

// Temp is an uploaded file spooled to disk for the length of one import.
// Close removes it.
type Temp struct {
	file *os.File
}

// NewTemp copies at most limit bytes of src into a temp file. A larger
// input fails with csvimport.ErrFileTooLarge and leaves nothing behind.
func NewTemp(src io.Reader, limit int64) (*Temp, error) {
	f, err := os.CreateTemp("", tempPattern)
	if err != nil {
		return nil, err
	}
	t := &Temp{file: f}

	reader := src
	if limit > 0 {
		reader = io.LimitReader(src, limit+1)
	}
	n, err := io.Copy(f, reader)
	if err != nil {
		t.Close()
		return nil, err
	}
	if limit > 0 && n > limit {
		t.Close()
		return nil, csvimport.ErrFileTooLarge
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

func (t *Temp) Read(p []byte) (int, error) {
	return t.file.Read(p)
}

func (t *Temp) Name() string {
	return t.file.Name()
}

func (t *Temp) Close() error {
	closeErr := t.file.Close()
	removeErr := os.Remove(t.file.Name())
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}
	if errors.Is(closeErr, os.ErrClosed) {
		closeErr = nil
	}
	return errors.Join(closeErr, removeErr)
}

// SweepTemp removes import spool files in dir last modified before cutoff.
// They are left behind only when the process dies mid-import.
func SweepTemp(dir string, cutoff time.Time) (int, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	matches, err := filepath.Glob(filepath.Join(dir, tempPattern))
	if err != nil {
		return 0, err
	}

	var (
		removed int
		errs    error
	)
	for _, name := range matches {
		info, err := os.Stat(name)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = errors.Join(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}
