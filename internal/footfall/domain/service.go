package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/smallbiznis/showroom/internal/csvimport"
)

type EntryInput struct {
	Footfall   int        `json:"footfall"`
	Conversion int        `json:"conversion"`
	PC         *string    `json:"pc,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// UnmarshalJSON accepts the timestamp as any date the CSV import recognises
// (ISO, D/M/YYYY, month names) or as epoch milliseconds.
func (in *EntryInput) UnmarshalJSON(data []byte) error {
	type plain EntryInput
	var raw struct {
		plain
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = EntryInput(raw.plain)
	in.Timestamp = nil

	value := bytes.TrimSpace(raw.Timestamp)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil
	}
	if value[0] != '"' {
		var ms int64
		if err := json.Unmarshal(value, &ms); err != nil {
			return ErrInvalidTimestamp
		}
		ts := time.UnixMilli(ms).UTC()
		in.Timestamp = &ts
		return nil
	}

	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return ErrInvalidTimestamp
	}
	if text == "" {
		return nil
	}
	ts, ok := csvimport.NormalizeDate(text)
	if !ok {
		return ErrInvalidTimestamp
	}
	in.Timestamp = &ts
	return nil
}

type SaveEntriesRequest struct {
	UserID   string
	Username string
	Entries  []EntryInput
}

type UpdateEntryRequest struct {
	UserID     string
	EntryID    string
	Footfall   int
	Conversion int
}

type DeleteEntryRequest struct {
	UserID  string
	EntryID string
}

type ImportRequest struct {
	File      io.Reader
	DefaultPC string
}

type Service interface {
	SaveEntries(ctx context.Context, req SaveEntriesRequest) (Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) (Record, error)
	DeleteEntry(ctx context.Context, req DeleteEntryRequest) (Record, error)
	Import(ctx context.Context, req ImportRequest) (csvimport.Summary, error)
}

var (
	ErrInvalidUserID    = errors.New("invalid_user_id")
	ErrInvalidEntryID   = errors.New("invalid_entry_id")
	ErrEmptyEntries     = errors.New("invalid_foot_entry")
	ErrInvalidCount     = errors.New("invalid_count")
	ErrInvalidTimestamp = errors.New("invalid_timestamp")
	ErrNotFound         = errors.New("not_found")
)

const UnknownUsername = "unknown"
