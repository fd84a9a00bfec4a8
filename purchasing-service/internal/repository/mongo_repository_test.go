package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func setupCartRepo(t *testing.T) (CartRepository, domain.Clock) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	require.NoError(t, CreateCartIndexes(ctx, db))

	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewMongoRepository(db, clock), clock
}

func cartWithOneItem(t *testing.T, clock domain.Clock, customerID domain.CustomerID) *domain.Cart {
	t.Helper()
	cart := domain.NewCart(domain.NewCartID(), customerID, clock)
	require.NoError(t, cart.AddItem("P1", 2, domain.NewProductOptions(map[string]string{"size": "L"})))
	return cart
}

func TestMongoFindByID_NotFound(t *testing.T) {
	repo, _ := setupCartRepo(t)

	cart, err := repo.FindByID(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestMongoSaveAndFindByID(t *testing.T) {
	repo, clock := setupCartRepo(t)
	ctx := context.Background()

	cart := cartWithOneItem(t, clock, "customer-1")
	require.NoError(t, repo.Save(ctx, cart))

	fetched, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, cart.ID(), fetched.ID())
	assert.Equal(t, domain.CustomerID("customer-1"), fetched.CustomerID())
	require.Len(t, fetched.Items(), 1)

	item := fetched.Items()[0]
	assert.Equal(t, domain.ProductID("P1"), item.ProductID())
	assert.Equal(t, 2, item.Quantity())
	value, ok := item.Options().Get("size")
	require.True(t, ok)
	assert.Equal(t, "L", value)
}

func TestMongoSave_UpsertsExistingCart(t *testing.T) {
	repo, clock := setupCartRepo(t)
	ctx := context.Background()

	cart := cartWithOneItem(t, clock, "customer-1")
	require.NoError(t, repo.Save(ctx, cart))

	require.NoError(t, cart.AddItem("P2", 1, domain.NewProductOptions(nil)))
	require.NoError(t, repo.Save(ctx, cart))

	fetched, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Len(t, fetched.Items(), 2)
}

func TestMongoFindActiveByCustomerID_SkipsConverted(t *testing.T) {
	repo, clock := setupCartRepo(t)
	ctx := context.Background()

	cart := cartWithOneItem(t, clock, "customer-1")
	require.NoError(t, cart.ConvertToOrder())
	require.NoError(t, repo.Save(ctx, cart))

	active := domain.NewCart(domain.NewCartID(), "customer-1", clock)
	require.NoError(t, repo.Save(ctx, active))

	fetched, err := repo.FindActiveByCustomerID(ctx, "customer-1")
	require.NoError(t, err)
	assert.Equal(t, active.ID(), fetched.ID())
	assert.False(t, fetched.IsConverted())
}

func TestMongoFindActiveByCustomerID_NoneActive(t *testing.T) {
	repo, clock := setupCartRepo(t)
	ctx := context.Background()

	cart := cartWithOneItem(t, clock, "customer-1")
	require.NoError(t, cart.ConvertToOrder())
	require.NoError(t, repo.Save(ctx, cart))

	fetched, err := repo.FindActiveByCustomerID(ctx, "customer-1")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	assert.Nil(t, fetched)
}

func TestMongoDelete(t *testing.T) {
	repo, clock := setupCartRepo(t)
	ctx := context.Background()

	cart := cartWithOneItem(t, clock, "customer-1")
	require.NoError(t, repo.Save(ctx, cart))
	require.NoError(t, repo.Delete(ctx, cart.ID()))

	_, err := repo.FindByID(ctx, cart.ID())
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestMongoDelete_NotFound(t *testing.T) {
	repo, _ := setupCartRepo(t)

	err := repo.Delete(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestMongoSave_PreservesConvertedFlag(t *testing.T) {
	repo, clock := setupCartRepo(t)
	ctx := context.Background()

	cart := cartWithOneItem(t, clock, "customer-1")
	require.NoError(t, cart.ConvertToOrder())
	require.NoError(t, repo.Save(ctx, cart))

	fetched, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.True(t, fetched.IsConverted())
	assert.ErrorIs(t, fetched.AddItem("P3", 1, domain.NewProductOptions(nil)), domain.ErrCartAlreadyConverted)
}
