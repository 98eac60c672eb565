package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/storage"
	"github.com/smallbiznis/showroom/internal/video/domain"
	"github.com/smallbiznis/showroom/internal/video/repository"
	"github.com/smallbiznis/showroom/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (domain.Service, *storage.Local, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Video{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	files, err := storage.NewLocalAt(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: fake,
		Files: files,
	})
	return svc, files, fake
}

func upload(t *testing.T, files *storage.Local, body string) string {
	t.Helper()
	stored, err := files.Save(context.Background(), storage.AreaVideos, "clip.mp4", bytes.NewBufferString(body))
	require.NoError(t, err)
	return stored
}

func TestTagAcceptsLegacyID(t *testing.T) {
	var tags []domain.Tag
	require.NoError(t, json.Unmarshal([]byte(`[{"_id":"a1","name":"Bridal"},{"id":"b2","name":"Gold"}]`), &tags))
	assert.Equal(t, []domain.Tag{{ID: "a1", Name: "Bridal"}, {ID: "b2", Name: "Gold"}}, tags)
}

func TestCreateSearchAndCategory(t *testing.T) {
	svc, files, fake := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		TagNumber:   "TN-100",
		Category:    "Rings",
		Tags:        []domain.Tag{{Name: "Bridal"}},
		VideoUpload: upload(t, files, "a"),
	})
	require.NoError(t, err)
	fake.Advance(time.Minute)
	_, err = svc.Create(ctx, domain.CreateRequest{
		Category:    "Necklaces",
		Tags:        []domain.Tag{{Name: "Temple"}},
		VideoUpload: upload(t, files, "b"),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{TagNumber: "TN-100", Category: "Rings", VideoUpload: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTagNumber)

	found, err := svc.Search(ctx, domain.SearchRequest{Tags: "bridal"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rings", found[0].Category)

	found, err = svc.Search(ctx, domain.SearchRequest{Query: "n"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Necklaces", found[0].Category)

	_, err = svc.Search(ctx, domain.SearchRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptySearch)

	byCat, err := svc.ByCategory(ctx, "Rings")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOpenAndDelete(t *testing.T) {
	svc, files, _ := newService(t)
	ctx := context.Background()

	stored := upload(t, files, "video-bytes")
	video, err := svc.Create(ctx, domain.CreateRequest{Category: "Rings", VideoUpload: stored})
	require.NoError(t, err)

	_, f, err := svc.Open(ctx, video.ID.String())
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "video-bytes", string(body))

	_, err = svc.Delete(ctx, video.ID.String())
	require.NoError(t, err)

	_, err = files.Open(stored)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, _, err = svc.Open(ctx, video.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpenMissingFile(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	video, err := svc.Create(ctx, domain.CreateRequest{Category: "Rings", VideoUpload: "uploads/videos/gone.mp4"})
	require.NoError(t, err)

	_, _, err = svc.Open(ctx, video.ID.String())
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
