package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/cache"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/csvimport"
	"github.com/smallbiznis/showroom/internal/product/domain"
	"github.com/smallbiznis/showroom/internal/product/repository"
	"github.com/smallbiznis/showroom/internal/ratelimit"
	"github.com/smallbiznis/showroom/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	repo  domain.Repository
	guard *ratelimit.ImportGuard
}

func newFixture(t *testing.T, repo domain.Repository) fixture {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	if repo == nil {
		repo = repository.Provide()
	}
	guard := ratelimit.NewImportGuard(nil)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
		Clock: clock.NewFakeClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Cache: cache.NewMemory(1024 * 1024),
		Guard: guard,
	})
	return fixture{svc: svc, db: conn, repo: repo, guard: guard}
}

const catalogCSV = "Product Category,Jewel Code,Gold Purity,MRP,Dia Wt,Dia Amt,Diamond Colour,Quality Code,Colour Stone Wt,Discount\n" +
	"Ring,R-1,18KT,\"1,25,000\",0.10,5000,EF,VVS,,250\n" +
	",,,,0.20,9000,GH,VS,,\n" +
	",,,,,,,,0.5,\n" +
	"Pendant,P-7,PL950,42000,,,,,,\n"

func TestImportFoldsContinuationRows(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(catalogCSV)})
	require.NoError(t, err)
	assert.Equal(t, 2, result.InsertedCount)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 0, result.SkippedRows)
	assert.Equal(t, 2, result.KeysProcessed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, csvimport.KeyResult{Key: "R-1", Imported: 3, Total: 3}, result.Results[0])
	assert.Equal(t, csvimport.KeyResult{Key: "P-7", Imported: 1, Total: 0}, result.Results[1])

	items, err := f.svc.Search(ctx, "R-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	ring := items[0]
	assert.Equal(t, "Ring", ring.ProductCategory)
	assert.Equal(t, "18KT", ring.Material, "material falls back to gold_purity")
	require.NotNil(t, ring.MRP)
	assert.InDelta(t, 125000, *ring.MRP, 0.001)
	require.NotNil(t, ring.DiscountAmount)
	assert.InDelta(t, 250, *ring.DiscountAmount, 0.001)
	assert.Nil(t, ring.FinalPrice)
	require.Len(t, ring.Diamonds, 2)
	assert.Equal(t, "GH", ring.Diamonds[1].Colour)
	require.Len(t, ring.Stones, 1)
	assert.Nil(t, ring.Stones[0].Amount)
}

func TestImportWithoutValidRowsKeepsCatalog(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(catalogCSV)})
	require.NoError(t, err)

	empty := "jewel_code,mrp\n,100\n,200\n"
	result, err := f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(empty)})
	require.ErrorIs(t, err, csvimport.ErrNoValidRows)
	assert.Equal(t, 2, result.SkippedRows)

	n, err := countProducts(f.db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestImportReplacesCatalogAndPurgesCache(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(catalogCSV)})
	require.NoError(t, err)

	items, err := f.svc.Search(ctx, "P-7")
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader("jewel_code;mrp\nN-1;10\n")})
	require.NoError(t, err)

	items, err = f.svc.Search(ctx, "P-7")
	require.NoError(t, err)
	assert.Empty(t, items, "stale cache entries are purged after a replace")

	n, err := countProducts(f.db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func countProducts(conn *gorm.DB) (int64, error) {
	var n int64
	err := conn.Model(&domain.Product{}).Count(&n).Error
	return n, err
}

func TestSearchIgnoresResultsCachedBeforeImport(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	svc := f.svc.(*Service)

	_, err := f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(catalogCSV)})
	require.NoError(t, err)

	// a search that read the old catalog and stores it after the next import
	staleKey := svc.searchKey(ctx, "P-7")
	stale, err := f.svc.Search(ctx, "P-7")
	require.NoError(t, err)
	require.Len(t, stale, 1)

	_, err = f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader("jewel_code;mrp\nN-1;10\n")})
	require.NoError(t, err)
	cache.SetJSON(ctx, svc.cache, staleKey, stale, searchCacheTTL)

	assert.NotEqual(t, staleKey, svc.searchKey(ctx, "P-7"))
	items, err := f.svc.Search(ctx, "P-7")
	require.NoError(t, err)
	assert.Empty(t, items)
}

type failingRepo struct {
	domain.Repository
}

func (failingRepo) ReplaceAll(context.Context, *gorm.DB, []*domain.Product) error {
	return errors.New("disk full")
}

func TestImportStorageFailure(t *testing.T) {
	f := newFixture(t, failingRepo{Repository: repository.Provide()})

	_, err := f.svc.Import(context.Background(), domain.ImportRequest{File: strings.NewReader(catalogCSV)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	release, err := f.guard.Acquire(context.Background(), importSource)
	require.NoError(t, err, "lock is released after a failed import")
	release()
}

func TestImportRejectedWhileRunning(t *testing.T) {
	f := newFixture(t, nil)

	release, err := f.guard.Acquire(context.Background(), importSource)
	require.NoError(t, err)
	defer release()

	_, err = f.svc.Import(context.Background(), domain.ImportRequest{File: strings.NewReader(catalogCSV)})
	assert.ErrorIs(t, err, csvimport.ErrImportRunning)
}

func TestSearchRequiresCode(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidJewelCode)
}

func TestReplaceAllRollsBackOnInsertFailure(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(catalogCSV)})
	require.NoError(t, err)

	dup := []*domain.Product{
		{ID: 1, JewelCode: "X", Diamonds: []domain.Diamond{}, Stones: []domain.Stone{}},
		{ID: 2, JewelCode: "X", Diamonds: []domain.Diamond{}, Stones: []domain.Stone{}},
	}
	require.Error(t, f.repo.ReplaceAll(ctx, f.db, dup))

	n, err := countProducts(f.db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "previous catalog survives a failed replace")
}
