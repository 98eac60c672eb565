package domain

import (
	"context"
	"errors"
	"io"

	"github.com/smallbiznis/showroom/internal/csvimport"
)

type ImportRequest struct {
	File io.Reader
}

type ImportResult struct {
	csvimport.Summary
	InsertedCount int `json:"insertedCount"`
}

type Service interface {
	Search(ctx context.Context, jewelCode string) ([]Product, error)
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)
}

var (
	ErrInvalidJewelCode = errors.New("invalid_jewel_code")
)
