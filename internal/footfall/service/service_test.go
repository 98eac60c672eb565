package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/csvimport"
	"github.com/smallbiznis/showroom/internal/footfall/domain"
	"github.com/smallbiznis/showroom/internal/footfall/repository"
	"github.com/smallbiznis/showroom/internal/ratelimit"
	"github.com/smallbiznis/showroom/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, repo domain.Repository) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()
	return newGuardedTestService(t, repo, nil)
}

func newGuardedTestService(t *testing.T, repo domain.Repository, guard *ratelimit.ImportGuard) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Record{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	if repo == nil {
		repo = repository.Provide()
	}
	fake := clock.NewFakeClock(time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
		Clock: fake,
		Guard: guard,
	})
	return svc, conn, fake
}

func jan(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestImportCarriesKeyForward(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	file := "user_id,username,footfall,conversion,timestamp\n" +
		"U1,Asha,8,2,2025-01-02\n" +
		",,5,1,2025-01-01\n"

	summary, err := svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(file)})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 0, summary.SkippedRows)
	assert.Equal(t, 1, summary.KeysProcessed)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, csvimport.KeyResult{Key: "U1", Username: "Asha", Imported: 2, Total: 2}, summary.Results[0])

	records, err := svc.List(ctx, domain.ListFilter{UserID: "U1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Entries, 2)
	assert.True(t, records[0].Entries[0].Timestamp.Equal(jan(1)))
	assert.Equal(t, 5, records[0].Entries[0].Footfall)
	assert.True(t, records[0].Entries[1].Timestamp.Equal(jan(2)))
}

func TestImportReuploadOverwrites(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	first := "user_id;footfall;conversion;timestamp\nU1;5;1;1/1/2025\nU1;8;2;2/1/2025\n"
	_, err := svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(first)})
	require.NoError(t, err)

	second := "user_id,footfall,timestamp\nU1,99,2025-01-01\n"
	summary, err := svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(second)})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, 1, summary.Results[0].Imported)
	assert.Equal(t, 2, summary.Results[0].Total)

	records, err := svc.List(ctx, domain.ListFilter{UserID: "U1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Entries, 2)
	assert.Equal(t, 99, records[0].Entries[0].Footfall)
	assert.Equal(t, domain.UnknownUsername, records[0].Username)
}

func TestImportTwiceIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	file := "user_id,username,footfall,conversion,pc,date\n" +
		"U1,Asha,5,1,PC1,01-01-2025\n" +
		",,,,,02-01-2025\n" +
		",,6,0,,03-01-2025\n" +
		"U2,Ravi,3,1,,2025-01-01\n"

	for i := 0; i < 2; i++ {
		summary, err := svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(file), DefaultPC: "STORE"})
		require.NoError(t, err)
		assert.Equal(t, 4, summary.TotalRows)
		assert.Equal(t, 1, summary.SkippedRows, "blank payload row")
		assert.Equal(t, 2, summary.KeysProcessed)
	}

	records, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Asha", records[0].Username)
	require.Len(t, records[0].Entries, 2)
	require.NotNil(t, records[0].Entries[0].PC)
	assert.Equal(t, "PC1", *records[0].Entries[0].PC)
	require.NotNil(t, records[0].Entries[1].PC)
	assert.Equal(t, "STORE", *records[0].Entries[1].PC)
	assert.Len(t, records[1].Entries, 1)
}

func TestImportSkipsFutureDates(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	file := "user_id,footfall,timestamp\nU1,1,2025-02-28\nU1,2,2025-03-05\n"
	summary, err := svc.Import(context.Background(), domain.ImportRequest{File: strings.NewReader(file)})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, 1, summary.Results[0].Imported)
	assert.Equal(t, 1, summary.Results[0].Total)
}

func TestImportRejectsEmptyFile(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Import(context.Background(), domain.ImportRequest{File: strings.NewReader("")})
	assert.ErrorIs(t, err, csvimport.ErrEmptyFile)

	_, err = svc.Import(context.Background(), domain.ImportRequest{})
	assert.ErrorIs(t, err, csvimport.ErrNoFile)
}

type failingRepo struct {
	domain.Repository
	failOn string
}

func (r failingRepo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	if record.UserID == r.failOn {
		return errors.New("connection reset")
	}
	return r.Repository.Insert(ctx, db, record)
}

func TestImportReportsFailingKey(t *testing.T) {
	svc, _, _ := newTestService(t, failingRepo{Repository: repository.Provide(), failOn: "U2"})
	ctx := context.Background()

	file := "user_id,footfall,timestamp\nU1,1,2025-01-01\nU2,2,2025-01-01\nU3,3,2025-01-01\n"
	summary, err := svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(file)})
	require.Error(t, err)

	var keyErr *csvimport.KeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "U2", keyErr.Key)
	assert.Equal(t, 1, summary.KeysProcessed)

	records, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1, "keys written before the failure stay committed")
	assert.Equal(t, "U1", records[0].UserID)
}

func TestSaveEntriesCreatesThenAppends(t *testing.T) {
	svc, _, fake := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.SaveEntries(ctx, domain.SaveEntriesRequest{UserID: "U9"})
	assert.ErrorIs(t, err, domain.ErrEmptyEntries)

	ts := jan(5)
	record, err := svc.SaveEntries(ctx, domain.SaveEntriesRequest{
		UserID:  "U9",
		Entries: []domain.EntryInput{{Footfall: 4, Conversion: 1, Timestamp: &ts}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownUsername, record.Username)
	require.Len(t, record.Entries, 1)

	record, err = svc.SaveEntries(ctx, domain.SaveEntriesRequest{
		UserID:   "U9",
		Username: "ignored",
		Entries:  []domain.EntryInput{{Footfall: 7}},
	})
	require.NoError(t, err)
	require.Len(t, record.Entries, 2)
	assert.True(t, record.Entries[1].Timestamp.Equal(fake.Now()))
	assert.Equal(t, domain.UnknownUsername, record.Username)
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	ts := jan(5)
	record, err := svc.SaveEntries(ctx, domain.SaveEntriesRequest{
		UserID:   "U1",
		Username: "Asha",
		Entries:  []domain.EntryInput{{Footfall: 4, Timestamp: &ts}},
	})
	require.NoError(t, err)
	entryID := record.Entries[0].ID.String()

	record, err = svc.UpdateEntry(ctx, domain.UpdateEntryRequest{UserID: "U1", EntryID: entryID, Footfall: 10, Conversion: 3})
	require.NoError(t, err)
	assert.Equal(t, 10, record.Entries[0].Footfall)
	assert.Equal(t, 3, record.Entries[0].Conversion)

	_, err = svc.UpdateEntry(ctx, domain.UpdateEntryRequest{UserID: "U1", EntryID: "123", Footfall: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.UpdateEntry(ctx, domain.UpdateEntryRequest{UserID: "nobody", EntryID: entryID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.UpdateEntry(ctx, domain.UpdateEntryRequest{UserID: "U1", EntryID: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidEntryID)

	record, err = svc.DeleteEntry(ctx, domain.DeleteEntryRequest{UserID: "U1", EntryID: entryID})
	require.NoError(t, err)
	assert.Empty(t, record.Entries)

	_, err = svc.DeleteEntry(ctx, domain.DeleteEntryRequest{UserID: "U1", EntryID: entryID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentSavesKeepEveryEntry(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ts := jan(n + 1)
			_, err := svc.SaveEntries(ctx, domain.SaveEntriesRequest{
				UserID:  "U1",
				Entries: []domain.EntryInput{{Footfall: n, Timestamp: &ts}},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	records, err := svc.List(ctx, domain.ListFilter{UserID: "U1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Entries, writers)
}

func TestImportRejectedWhileAnotherRuns(t *testing.T) {
	guard := ratelimit.NewImportGuard(nil)
	svc, _, _ := newGuardedTestService(t, nil, guard)
	ctx := context.Background()

	release, err := guard.Acquire(ctx, importSource)
	require.NoError(t, err)

	file := "user_id,footfall,timestamp\nU1,1,2025-01-01\n"
	_, err = svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(file)})
	assert.ErrorIs(t, err, csvimport.ErrImportRunning)

	release()
	summary, err := svc.Import(ctx, domain.ImportRequest{File: strings.NewReader(file)})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.KeysProcessed)
}
