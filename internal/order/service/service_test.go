package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/order/domain"
	"github.com/smallbiznis/showroom/internal/order/repository"
	"github.com/smallbiznis/showroom/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type removed []string

func (r *removed) Remove(stored string) error {
	*r = append(*r, stored)
	return nil
}

type fixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	files *removed
	svc   domain.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&domain.Order{},
		&domain.Category{},
		&domain.Salesperson{},
		&domain.StatusOption{},
		&domain.Karigar{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))
	files := &removed{}

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: fake,
		Files: files,
	})
	return fixture{db: conn, node: node, clock: fake, files: files, svc: svc}
}

func createReq(party, image string) domain.CreateRequest {
	delivery := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	qty := 1
	return domain.CreateRequest{
		Party:        party,
		Customer:     "Asha",
		ImageProduct: image,
		DeliveryDate: &delivery,
		Quantity:     &qty,
		Salesperson:  "Ravi",
		GoldWeight:   "12.5",
		ItemCategory: "Ring",
		Purity:       "22K",
	}
}

func TestCreateNumbersSequentially(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, createReq("Shree", "uploads/orders/1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "RK0001", first.OrderNumber)
	assert.Equal(t, domain.StatusIssued, first.Status)

	f.clock.Advance(time.Minute)
	second, err := f.svc.Create(ctx, createReq("Kala", "uploads/orders/2.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "RK0002", second.OrderNumber)

	orders, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "RK0002", orders[0].OrderNumber)

	orders, err = f.svc.List(ctx, domain.ListRequest{Party: "shr"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Shree", orders[0].Party)

	orders, err = f.svc.List(ctx, domain.ListRequest{ID: second.ID.String()})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	_, err = f.svc.List(ctx, domain.ListRequest{ID: "not-an-id"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Empty(t, *f.files)
}

func TestCreateContinuesAfterHighestNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, number := range []string{"RK0009", "RK0010"} {
		require.NoError(t, f.db.Create(&domain.Order{
			ID:           f.node.Generate(),
			Party:        "Old",
			OrderNumber:  number,
			DeliveryDate: f.clock.Now(),
			Quantity:     1,
			GoldWeight:   "1",
			ItemCategory: "Ring",
			Purity:       "18K",
			Status:       domain.StatusIssued,
			Timestamp:    f.clock.Now(),
		}).Error)
	}

	order, err := f.svc.Create(ctx, createReq("Shree", "uploads/orders/1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "RK0011", order.OrderNumber)
}

func TestCreateRemovesImageOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := createReq("", "uploads/orders/bad.jpg")
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidParty)
	assert.Equal(t, []string{"uploads/orders/bad.jpg"}, []string(*f.files))

	req = createReq("Shree", "")
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrMissingImage)

	req = createReq("Shree", "uploads/orders/x.jpg")
	zero := 0
	req.Quantity = &zero
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdateStatusAndEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, createReq("Shree", "uploads/orders/1.jpg"))
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, order.ID.String(), "Dispatched")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDispatched, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, order.ID.String(), "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, f.node.Generate().String(), "hold")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	image := "uploads/orders/2.jpg"
	remarks := "rush"
	edited, err := f.svc.Edit(ctx, domain.EditRequest{ID: order.ID.String(), ImageProduct: &image, Remarks: &remarks})
	require.NoError(t, err)
	assert.Equal(t, image, edited.ImageProduct)
	assert.Equal(t, "rush", edited.Remarks)
	assert.Equal(t, "RK0001", edited.OrderNumber)
	assert.Equal(t, []string{"uploads/orders/1.jpg"}, []string(*f.files))
}

func TestMasterData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := MasterParams{DB: f.db, Log: zap.NewNop(), GenID: f.node, Clock: f.clock}

	categories := NewCategories(p)
	_, err := categories.Create(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	ring, err := categories.Create(ctx, "Ring")
	require.NoError(t, err)
	_, err = categories.Create(ctx, "Bangle")
	require.NoError(t, err)
	_, err = categories.Create(ctx, "Ring")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	items, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Bangle", items[0].Name)

	require.NoError(t, categories.Delete(ctx, ring.ID.String()))
	assert.ErrorIs(t, categories.Delete(ctx, ring.ID.String()), domain.ErrNotFound)

	statuses := NewStatusOptions(p)
	_, err = statuses.Create(ctx, "Ready")
	require.NoError(t, err)
	_, err = statuses.Create(ctx, "Ready")
	require.NoError(t, err)

	karigars, err := NewKarigars(p).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, karigars)
}
