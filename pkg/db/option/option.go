package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before it is executed.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type optionFunc func(db *gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

func ApplyOperator(field string, op Operator, value any) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s %s ?", field, op), value)
	})
}

type Operator string

const (
	Equal          Operator = "="
	NotEqual       Operator = "<>"
	GreaterThan    Operator = ">"
	GreaterOrEqual Operator = ">="
	LessThan       Operator = "<"
	LessOrEqual    Operator = "<="
)

func WithEqual(field string, value any) QueryOption {
	return ApplyOperator(field, Equal, value)
}

// WithIn filters rows whose field is one of values.
func WithIn[T any](field string, values []T) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s IN ?", field), values)
	})
}

// WithContains is a case-insensitive substring match that works on
// postgres, mysql and sqlite alike.
func WithContains(field, value string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		value = strings.TrimSpace(value)
		if value == "" {
			return db
		}
		return db.Where(fmt.Sprintf("LOWER(%s) LIKE ?", field), "%"+escapeLike(strings.ToLower(value))+"%")
	})
}

// WithAnyContains ORs WithContains across fields.
func WithAnyContains(value string, fields ...string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		value = strings.TrimSpace(value)
		if value == "" || len(fields) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(value)) + "%"
		clauses := make([]string, 0, len(fields))
		args := make([]any, 0, len(fields))
		for _, field := range fields {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", field))
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	})
}

func WithSortBy(field string, desc bool) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		return db.Order(fmt.Sprintf("%s %s", field, dir))
	})
}

func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

func escapeLike(value string) string {
	return strings.ReplaceAll(value, "%", "")
}
