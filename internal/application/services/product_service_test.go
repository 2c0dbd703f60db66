package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog/internal/adapters/repository"
	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

func newTestService(t *testing.T) (*ProductService, EventBus.Bus) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	bus := EventBus.New()
	repo := repository.NewProductFileRepository(path, logger.NewNop())
	return NewProductService(repo, bus, logger.NewNop()), bus
}

func penRequest() ports.CreateProductRequest {
	return ports.CreateProductRequest{
		Name:      "Pen",
		Price:     "1.5",
		Thumbnail: "x.png",
		Category:  "office",
		Stock:     "10",
	}
}

func TestCreate_NormalizesInput(t *testing.T) {
	svc, _ := newTestService(t)

	product, err := svc.Create(context.Background(), penRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Pen", product.Name)
	assert.Equal(t, 1.5, product.Price)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, " ", product.Subcategory)
	assert.Equal(t, " ", product.Description)
	assert.Equal(t, "office", product.Category)
	assert.NotEmpty(t, product.Timestamp)
}

func TestCreate_EmptyRequest(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), ports.CreateProductRequest{})
	assert.ErrorIs(t, err, entities.ErrMissingFields)
}

func TestCreate_TitleAliasesName(t *testing.T) {
	svc, _ := newTestService(t)

	product, err := svc.Create(context.Background(), ports.CreateProductRequest{
		Title:     "API Pen",
		Price:     2.75,
		Thumbnail: "y.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "API Pen", product.Name)
	assert.Equal(t, 2.75, product.Price)
}

func TestCreate_BadPriceIsHardFailure(t *testing.T) {
	svc, _ := newTestService(t)

	req := penRequest()
	req.Price = "not-a-number"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, entities.ErrBadNumber)
}

// A JSON numeric zero is treated like an absent price, but the page
// form's "0" string is a supplied value and is stored.
func TestCreate_ZeroPrice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := penRequest()
	req.Price = 0.0
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, entities.ErrMissingFields)

	req.Price = "0"
	product, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Zero(t, product.Price)
}

func TestCreate_PublishesChange(t *testing.T) {
	svc, bus := newTestService(t)

	published := 0
	require.NoError(t, bus.Subscribe(TopicProductsChanged, func() { published++ }))

	_, err := svc.Create(context.Background(), penRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
}

func TestEdit_PreservesOmittedFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, penRequest())
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, created.ID, ports.ProductPatch{Price: "3.5"})
	require.NoError(t, err)

	assert.Equal(t, 3.5, edited.Price)
	assert.Equal(t, created.Name, edited.Name)
	assert.Equal(t, created.Category, edited.Category)
	assert.Equal(t, created.Stock, edited.Stock)
	assert.Equal(t, created.Thumbnail, edited.Thumbnail)
	assert.Equal(t, created.ID, edited.ID)
}

func TestEdit_LenientBadNumberKeepsOldValue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, penRequest())
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, created.ID, ports.ProductPatch{Price: "not-a-number"})
	require.NoError(t, err)
	assert.Equal(t, created.Price, edited.Price)
}

func TestEdit_ZeroPriceIsStored(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, penRequest())
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, created.ID, ports.ProductPatch{Price: "0"})
	require.NoError(t, err)
	assert.Zero(t, edited.Price)
}

func TestEdit_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Edit(context.Background(), "nope", ports.ProductPatch{Price: "1"})
	assert.ErrorIs(t, err, entities.ErrProductNotFound)
}

func TestEdit_RefreshesTimestampUnlessSupplied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, penRequest())
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, created.ID, ports.ProductPatch{Timestamp: "Mon Jan 01 2024 00:00:00 GMT+0000"})
	require.NoError(t, err)
	assert.Equal(t, "Mon Jan 01 2024 00:00:00 GMT+0000", edited.Timestamp)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, penRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, entities.ErrProductNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), entities.ErrProductNotFound)
}

// Two overlapping edits on the same record are serialized at the file
// level, so the collection never corrupts, but the read-overlay-write
// cycle spans two store calls: the whole record is last-write-wins, not
// a field-level merge across the two editors.
func TestEdit_ConcurrentEditsKeepCollectionConsistent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, penRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, patch := range []ports.ProductPatch{
		{Price: "9.99"},
		{Stock: "42"},
	} {
		wg.Add(1)
		go func(p ports.ProductPatch) {
			defer wg.Done()
			_, err := svc.Edit(ctx, created.ID, p)
			assert.NoError(t, err)
		}(patch)
	}
	wg.Wait()

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	priceChanged := got.Price == 9.99
	stockChanged := got.Stock == 42
	assert.True(t, priceChanged || stockChanged, "at least the last edit must land")

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
