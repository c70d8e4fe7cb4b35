package services

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/entities"
	"niuniq/internal/events"
	"niuniq/pkg/query"
)

type productFixture struct {
	svc      ProductServiceInterface
	stores   *fakeStoreRepo
	products *fakeProductRepo
	storage  *fakeStorage
	search   *fakeInvalidator
	listing  *fakeListingRepo
	events   *recordingPublisher
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products: newFakeProductRepo(),
		storage:  newFakeStorage(),
		search:   &fakeInvalidator{},
		listing:  &fakeListingRepo{},
		events:   &recordingPublisher{},
	}
	f.stores = newFakeStoreRepo(f.products)
	f.svc = NewProductService(f.products, f.stores, f.listing, f.storage, fakeQRCodes{}, f.search, NewExportService(), f.events,
		ProductServiceConfig{MinPhotos: 2, MaxLimit: 50}, zap.NewNop())
	return f
}

func (f *productFixture) store(t *testing.T, ownerID uint64) *entities.Store {
	t.Helper()
	s, err := f.stores.Create(context.Background(), nil, &entities.Store{Name: "Kopi Gayo", UserID: ownerID})
	require.NoError(t, err)
	return s
}

func productPayload() dto.CreateProductDTO {
	return dto.CreateProductDTO{
		Name:           "Kopi Arabika",
		RawMaterials:   "biji kopi",
		Description:    "Kopi arabika gayo",
		ProductStorage: "simpan di tempat kering",
		Category:       "minuman",
		Price:          75000,
		Video:          "https://youtube.com/watch?v=kopi",
	}
}

var productIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{10}$`)

func TestNewProductID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := NewProductID()
		require.NoError(t, err)
		assert.Regexp(t, productIDPattern, id)
		seen[id] = true
	}
	assert.Len(t, seen, 50)
}

func TestProductService_CreateProduct(t *testing.T) {
	f := newProductFixture()
	store := f.store(t, 7)

	product, err := f.svc.CreateProduct(context.Background(), Actor{ID: 7, Role: entities.RoleUser}, store.ID, productPayload(), pngUploads(t, "images", 2))
	require.NoError(t, err)

	assert.Regexp(t, productIDPattern, product.ProductID)
	assert.Equal(t, "http://files/images/QRcodes/qrcode_"+product.ProductID+".png", product.QRCode)
	assert.Len(t, product.Photos, 2)
	assert.Equal(t, store.ID, product.StoreID)
	assert.Equal(t, uint64(7), product.UserID)
	assert.Nil(t, product.IsVerification)
	assert.Len(t, f.storage.files, 2)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, events.ProductCreated{ID: product.ID, ProductID: product.ProductID, StoreID: store.ID, UserID: 7}, f.events.events[0])
}

func TestProductService_CreateProductChecks(t *testing.T) {
	f := newProductFixture()
	store := f.store(t, 7)
	ctx := context.Background()

	_, err := f.svc.CreateProduct(ctx, Actor{ID: 7, Role: entities.RoleUser}, store.ID, productPayload(), pngUploads(t, "images", 1))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = f.svc.CreateProduct(ctx, Actor{ID: 8, Role: entities.RoleUser}, store.ID, productPayload(), pngUploads(t, "images", 2))
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = f.svc.CreateProduct(ctx, Actor{ID: 7, Role: entities.RoleUser}, 404, productPayload(), pngUploads(t, "images", 2))
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = f.svc.CreateProduct(ctx, Actor{ID: 8, Role: entities.RoleAdmin}, store.ID, productPayload(), pngUploads(t, "images", 2))
	assert.NoError(t, err)
	assert.Empty(t, f.storage.deleted)
}

func TestProductService_UpdateProduct(t *testing.T) {
	f := newProductFixture()
	store := f.store(t, 7)
	ctx := context.Background()
	owner := Actor{ID: 7, Role: entities.RoleUser}
	created, err := f.svc.CreateProduct(ctx, owner, store.ID, productPayload(), pngUploads(t, "images", 2))
	require.NoError(t, err)

	_, err = f.svc.UpdateProduct(ctx, Actor{ID: 9, Role: entities.RoleUser}, created.ID, dto.UpdateProductDTO{}, pngUploads(t, "images", 2))
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	payload := dto.UpdateProductDTO{}
	payload.Price.SetValid(80000)
	payload.IsVerification.SetValid(true)
	updated, err := f.svc.UpdateProduct(ctx, owner, created.ID, payload, pngUploads(t, "images", 3))
	require.NoError(t, err)

	assert.Equal(t, 80000.0, updated.Price)
	assert.Equal(t, "Kopi Arabika", updated.Name)
	require.NotNil(t, updated.IsVerification)
	assert.True(t, *updated.IsVerification)
	assert.Len(t, updated.Photos, 3)
	assert.Equal(t, created.QRCode, updated.QRCode)
	assert.ElementsMatch(t, created.Photos, f.storage.deleted)
	assert.Equal(t, []string{created.ProductID}, f.search.ids)
}

func TestProductService_DeleteProduct(t *testing.T) {
	f := newProductFixture()
	store := f.store(t, 7)
	ctx := context.Background()
	created, err := f.svc.CreateProduct(ctx, Actor{ID: 7, Role: entities.RoleUser}, store.ID, productPayload(), pngUploads(t, "images", 2))
	require.NoError(t, err)

	err = f.svc.DeleteProduct(ctx, Actor{ID: 9, Role: entities.RoleUser}, created.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	require.NoError(t, f.svc.DeleteProduct(ctx, Actor{ID: 7, Role: entities.RoleUser}, created.ID))
	assert.Empty(t, f.products.products)
	assert.ElementsMatch(t, append(append([]string{}, created.Photos...), created.QRCode), f.storage.deleted)
	assert.NotContains(t, f.storage.deleted, created.Video)
	assert.Equal(t, []string{created.ProductID}, f.search.ids)
	assert.Equal(t, events.ProductDeleted{ID: created.ID, ProductID: created.ProductID, StoreID: store.ID, ActorID: 7},
		f.events.events[len(f.events.events)-1])

	err = f.svc.DeleteProduct(ctx, Actor{ID: 7, Role: entities.RoleUser}, created.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestProductService_GetProductsForcesStore(t *testing.T) {
	f := newProductFixture()
	f.listing.total = 3

	params := query.Parameters{"store": "99", "price": map[string]any{"gte": "10"}}
	_, err := f.svc.GetProducts(context.Background(), params, 4)
	require.NoError(t, err)

	require.Len(t, f.listing.seen, 2)
	for _, desc := range f.listing.seen {
		assert.Equal(t, []query.FilterExpression{
			{Field: "price", Operator: query.GreaterOrEqual, Value: "10"},
			{Field: "store", Operator: query.Equals, Value: uint64(4)},
		}, desc.Filters)
	}
	assert.Equal(t, "99", params["store"], "params are not modified")
}

func TestProductService_ExportStoreProducts(t *testing.T) {
	f := newProductFixture()
	store := f.store(t, 7)
	ctx := context.Background()
	owner := Actor{ID: 7, Role: entities.RoleUser}
	created, err := f.svc.CreateProduct(ctx, owner, store.ID, productPayload(), pngUploads(t, "images", 2))
	require.NoError(t, err)

	_, _, err = f.svc.ExportStoreProducts(ctx, Actor{ID: 9, Role: entities.RoleUser}, store.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	buf, exported, err := f.svc.ExportStoreProducts(ctx, owner, store.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, exported.ID)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Product ID", rows[0][0])
	assert.Equal(t, created.ProductID, rows[1][0])
	assert.Equal(t, "Kopi Arabika", rows[1][1])
}
