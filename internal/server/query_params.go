package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	dateOnlyLayout      = "2006-01-02"
	datetimeLocalLayout = "2006-01-02T15:04"
)

var errInvalidTime = errors.New("invalid_time")

// parseOptionalTime accepts RFC 3339, an HTML datetime-local value, or a bare
// date. Values without a zone are read as UTC.
func parseOptionalTime(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, datetimeLocalLayout, dateOnlyLayout} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, errInvalidTime
}

func parseOptionalFloat(value string) (*float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// multipartForm reads fields of a multipart or urlencoded body. Absent
// fields come back nil so partial updates can leave them untouched.
type multipartForm struct {
	c    *gin.Context
	errs []ValidationError
}

func newMultipartForm(c *gin.Context) *multipartForm {
	return &multipartForm{c: c}
}

func (f *multipartForm) value(key string) string {
	return strings.TrimSpace(f.c.PostForm(key))
}

func (f *multipartForm) optional(key string) *string {
	v, ok := f.c.GetPostForm(key)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func (f *multipartForm) float(key string) *float64 {
	v, ok := f.c.GetPostForm(key)
	if !ok {
		return nil
	}
	parsed, err := parseOptionalFloat(v)
	if err != nil {
		f.fail(key)
		return nil
	}
	return parsed
}

func (f *multipartForm) integer(key string) *int {
	v, ok := f.c.GetPostForm(key)
	if !ok {
		return nil
	}
	parsed, err := parseOptionalInt(v)
	if err != nil {
		f.fail(key)
		return nil
	}
	return parsed
}

func (f *multipartForm) instant(key string) *time.Time {
	v, ok := f.c.GetPostForm(key)
	if !ok {
		return nil
	}
	parsed, err := parseOptionalTime(v)
	if err != nil {
		f.fail(key)
		return nil
	}
	return parsed
}

func (f *multipartForm) fail(key string) {
	f.errs = append(f.errs, ValidationError{
		Field:   key,
		Code:    "invalid_" + key,
		Message: "invalid value",
	})
}

// err returns every field that failed to parse.
func (f *multipartForm) err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: f.errs}
}
