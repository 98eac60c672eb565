package csvimport

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile        = errors.New("no_file")
	ErrFileType      = errors.New("invalid_file_type")
	ErrFileTooLarge  = errors.New("file_too_large")
	ErrNoValidRows   = errors.New("no_valid_rows")
	ErrImportRunning = errors.New("import_in_progress")
)

// KeyResult reports what happened to one natural key.
type KeyResult struct {
	Key      string `json:"key"`
	Username string `json:"username"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
}

// Summary is returned to the uploader.
type Summary struct {
	TotalRows     int         `json:"totalRows"`
	SkippedRows   int         `json:"skippedRows"`
	KeysProcessed int         `json:"keysProcessed"`
	Results       []KeyResult `json:"results"`
}

// KeyError identifies the key whose write aborted an import. Keys written
// before it stay committed.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("import key %s: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}
