package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var ErrEmptyFile = errors.New("empty_file")

var whitespaceRun = regexp.MustCompile(`\s+`)

// Row maps normalized header names to trimmed cell values.
type Row map[string]string

// Get returns the first non-blank value among keys.
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether any of keys carries a non-blank value.
func (r Row) Has(keys ...string) bool {
	return r.Get(keys...) != ""
}

// RowSource yields rows until io.EOF.
type RowSource interface {
	Next() (Row, error)
}

// Reader streams an uploaded CSV file row by row using a sniffed delimiter.
type Reader struct {
	csv       *csv.Reader
	header    []string
	delimiter rune
}

func NewReader(src io.Reader, sampleBytes int) (*Reader, error) {
	if sampleBytes <= 0 {
		sampleBytes = DefaultSampleBytes
	}
	br := bufio.NewReaderSize(src, max(sampleBytes, 4096))
	delimiter, err := Sniff(br, sampleBytes)
	if err != nil {
		return nil, fmt.Errorf("sniff delimiter: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	record, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	header := make([]string, len(record))
	for i, h := range record {
		header[i] = NormalizeHeader(h)
	}

	return &Reader{csv: cr, header: header, delimiter: delimiter}, nil
}

// NormalizeHeader trims, lowercases and joins internal whitespace with underscores.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
}

func (r *Reader) Delimiter() rune {
	return r.delimiter
}

// Next returns the next data row, or io.EOF after the last one.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err != nil {
		return nil, err
	}

	row := make(Row, len(r.header))
	for i, name := range r.header {
		if i >= len(record) || name == "" {
			continue
		}
		row[name] = strings.TrimSpace(record[i])
	}
	return row, nil
}

// SliceSource replays fixed rows; useful for callers that already hold parsed data.
type SliceSource struct {
	rows []Row
	pos  int
}

func NewSliceSource(rows ...Row) *SliceSource {
	return &SliceSource{rows: rows}
}

func (s *SliceSource) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
