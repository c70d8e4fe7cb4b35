package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"niuniq/internal/entities"
	"niuniq/migrations"
	"niuniq/pkg/database/postgresql"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/query"
)

// testPool connects to NIUNIQ_TEST_DATABASE_URL. Tests that need the
// database are skipped when it is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("NIUNIQ_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("NIUNIQ_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgresql.Migrate(ctx, pool, migrations.FS))
	_, err = pool.Exec(ctx, `TRUNCATE TABLE products, stores, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "truncate tables")
	return pool
}

func seedUserAndStore(t *testing.T, pool *pgxpool.Pool) (*entities.User, *entities.Store) {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	user, err := NewUserRepository(pool, logger).Create(ctx, &entities.User{
		Email: "owner@niuniq.id", NoTelepon: "081234567890", Role: entities.RoleUser, Password: "hash",
	})
	require.NoError(t, err)

	store, err := NewStoreRepository(pool, logger).Create(ctx, nil, &entities.Store{
		Name: "Kopi Gayo", UserID: user.ID, YearProduction: 2019, Regency: "ACEH TENGAH", Province: "ACEH",
		Ecommerces: []string{"tokopedia"},
	})
	require.NoError(t, err)
	return user, store
}

func TestUserRepository_CRUD(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool, zap.NewNop())

	user, _ := seedUserAndStore(t, pool)

	found, err := repo.FindByEmail(ctx, "owner@niuniq.id")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	withStore, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, withStore.Store)
	assert.Equal(t, "Kopi Gayo", withStore.Store.Name)

	role, err := repo.RoleOf(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleUser, role)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), apperrors.ErrNotFound)
}

func TestListingRepository_ForcedFilterAppliesToCountAndFind(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	logger := zap.NewNop()

	user, store := seedUserAndStore(t, pool)
	other, err := NewStoreRepository(pool, logger).Create(ctx, nil, &entities.Store{
		Name: "Teh Puncak", UserID: user.ID, YearProduction: 2020, Regency: "BOGOR", Province: "JAWA BARAT",
	})
	require.NoError(t, err)

	products := NewProductRepository(pool, logger)
	for i, storeID := range []uint64{store.ID, store.ID, store.ID, other.ID} {
		_, err := products.Create(ctx, nil, &entities.Product{
			ProductID: "P00000000" + string(rune('0'+i)), Name: "item", RawMaterials: "x", Description: "x",
			ProductStorage: "x", Price: float64(10 * (i + 1)), StoreID: storeID, UserID: user.ID,
		})
		require.NoError(t, err)
	}

	listing := NewListingRepository(pool, time.Second, logger)
	desc := query.NewPlanner(query.WithAllowedFields(ProductSchema.FieldNames()...)).BuildFilter(
		query.Parameters{"limit": "2", "price": map[string]any{"gte": "20"}},
		map[string]any{"store": store.ID},
	)

	total, err := listing.Count(ctx, ProductSchema, desc)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	records, err := listing.Find(ctx, ProductSchema, desc)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Kopi Gayo", records[0]["storeName"])
}
