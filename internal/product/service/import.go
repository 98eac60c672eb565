package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/csvimport"
	"github.com/smallbiznis/showroom/internal/product/domain"
	"go.uber.org/zap"
)

const importSource = "products"

// Import replaces the whole catalog with the products folded from the file.
// A file without a single usable row is rejected and the catalog is left as
// it was. The delete and the insert run in one transaction.
func (s *Service) Import(ctx context.Context, req domain.ImportRequest) (domain.ImportResult, error) {
	if req.File == nil {
		return domain.ImportResult{}, csvimport.ErrNoFile
	}

	release, err := s.guard.Acquire(ctx, importSource)
	if err != nil {
		return domain.ImportResult{}, err
	}
	defer release()

	reader, err := csvimport.NewReader(req.File, s.settings.Get().SampleBytes)
	if err != nil {
		return domain.ImportResult{}, err
	}

	folded, err := foldCatalog(ctx, reader, s.clock.Now(), s.genID.Generate)
	if err != nil {
		return domain.ImportResult{}, err
	}

	result := domain.ImportResult{
		Summary: csvimport.Summary{
			TotalRows:     folded.totalRows,
			SkippedRows:   folded.skipped,
			KeysProcessed: len(folded.products),
			Results:       make([]csvimport.KeyResult, 0, len(folded.products)),
		},
	}
	if len(folded.products) == 0 {
		s.log.Warn("product import rejected", zap.Int("rows", folded.totalRows), zap.Int("skipped", folded.skipped))
		return result, csvimport.ErrNoValidRows
	}

	if err := s.repo.ReplaceAll(ctx, s.db, folded.products); err != nil {
		s.log.Error("product import aborted", zap.Int("products", len(folded.products)), zap.Error(err))
		s.metrics.RecordImportFailure(ctx, importSource)
		return domain.ImportResult{}, fmt.Errorf("replace catalog: %w", err)
	}
	s.invalidateSearch(ctx)

	for _, p := range folded.products {
		result.Results = append(result.Results, csvimport.KeyResult{
			Key:      p.JewelCode,
			Imported: folded.rows[p.JewelCode],
			Total:    len(p.Diamonds) + len(p.Stones),
		})
	}
	result.InsertedCount = len(folded.products)

	s.log.Info("product import completed",
		zap.Int("rows", result.TotalRows),
		zap.Int("skipped", result.SkippedRows),
		zap.Int("keys", result.KeysProcessed),
		zap.String("delimiter", string(reader.Delimiter())),
	)
	s.metrics.RecordImport(ctx, importSource, result.TotalRows, result.SkippedRows, result.KeysProcessed)

	return result, nil
}

type catalog struct {
	products  []*domain.Product
	rows      map[string]int
	totalRows int
	skipped   int
}

// foldCatalog groups rows by jewel_code. Continuation rows with a blank code
// add diamonds and stones to the previous product.
func foldCatalog(ctx context.Context, src csvimport.RowSource, now time.Time, newID func() snowflake.ID) (*catalog, error) {
	out := &catalog{rows: make(map[string]int)}
	index := make(map[string]*domain.Product)
	var carry csvimport.Carry

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				out.totalRows++
				out.skipped++
				continue
			}
			return nil, err
		}
		out.totalRows++

		code, _, ok := carry.Resolve(row["jewel_code"], "")
		if !ok {
			out.skipped++
			continue
		}

		p, seen := index[code]
		if !seen {
			p = newProduct(row, code, now, newID())
			index[code] = p
			out.products = append(out.products, p)
		}
		out.rows[code]++

		if row.Has("dia_wt", "dia_amt") {
			p.Diamonds = append(p.Diamonds, domain.Diamond{
				Colour:      row.Get("diamond_colour"),
				QualityCode: row.Get("quality_code"),
				Weight:      number(row, "dia_wt"),
				Amount:      number(row, "dia_amt"),
			})
		}
		if row.Has("colour_stone_wt", "colour_stone_amt") {
			p.Stones = append(p.Stones, domain.Stone{
				Weight: number(row, "colour_stone_wt"),
				Amount: number(row, "colour_stone_amt"),
			})
		}
	}
}

func newProduct(row csvimport.Row, code string, now time.Time, id snowflake.ID) *domain.Product {
	return &domain.Product{
		ID:              id,
		ProductCategory: row.Get("product_category"),
		SubCategory:     row.Get("sub_category"),
		JewelCode:       code,
		Material:        row.Get("material", "gold_purity"),
		MRP:             number(row, "mrp"),
		GrossWt:         number(row, "gross_wt"),
		NetWt:           number(row, "net_wt"),
		Diamonds:        []domain.Diamond{},
		Stones:          []domain.Stone{},
		DiscountAmount:  number(row, "discount"),
		FinalPrice:      number(row, "final_price"),
		MakingCharge:    number(row, "making_charge"),
		MakingAmt:       number(row, "making_amt"),
		MetalAmt:        number(row, "metal_amt"),
		Collection:      row.Get("collection"),
		ProductImageURL: row.Get("product_image_url"),
		Gender:          row.Get("gender"),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func number(row csvimport.Row, key string) *float64 {
	f, ok := csvimport.ParseNumber(row[key])
	if !ok {
		return nil
	}
	return &f
}
