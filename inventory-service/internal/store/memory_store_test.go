package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INNER-CIRCLE-ICD4/commerce/inventory-service/internal/domain"
)

func setupStore(t *testing.T) *MemoryStore {
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMemoryStore_SetStock_And_GetStock(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SetStock("PRD-001", 100))
	require.NoError(t, store.SetStock("PRD-002", 200))

	stock, err := store.GetStock("PRD-001")
	require.NoError(t, err)
	assert.Equal(t, 100, stock.Total)
	assert.Equal(t, 100, stock.Available())

	stock, err = store.GetStock("PRD-002")
	require.NoError(t, err)
	assert.Equal(t, 200, stock.Total)
}

func TestMemoryStore_GetStock_ProductNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetStock("nonexistent")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_Reserve_Success(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 100))

	reservation, err := store.Reserve("PRD-001", 10)
	require.NoError(t, err)

	assert.NotEmpty(t, reservation.ID)
	assert.Equal(t, "PRD-001", reservation.ProductID)
	assert.Equal(t, 10, reservation.Quantity)
	assert.Equal(t, domain.StatusReserved, reservation.Status)
	assert.True(t, reservation.ExpiresAt.After(time.Now()))

	stock, _ := store.GetStock("PRD-001")
	assert.Equal(t, 90, stock.Available())
	assert.Equal(t, 10, stock.Reserved)
}

func TestMemoryStore_Reserve_InsufficientStock(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 10))

	_, err := store.Reserve("PRD-001", 20)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Stock should be unchanged
	stock, _ := store.GetStock("PRD-001")
	assert.Equal(t, 10, stock.Available())
}

func TestMemoryStore_Reserve_ProductNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.Reserve("nonexistent", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_Confirm_Success(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 100))

	reservation, _ := store.Reserve("PRD-001", 10)

	err := store.Confirm(reservation.ID)
	require.NoError(t, err)

	// Stock should be permanently deducted
	stock, _ := store.GetStock("PRD-001")
	assert.Equal(t, 90, stock.Total)
	assert.Equal(t, 0, stock.Reserved)
	assert.Equal(t, 90, stock.Available())
}

func TestMemoryStore_Confirm_NotFound(t *testing.T) {
	store := setupStore(t)

	err := store.Confirm("nonexistent-id")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestMemoryStore_Confirm_InvalidStatus(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 100))

	reservation, _ := store.Reserve("PRD-001", 10)
	_ = store.Release(reservation.ID) // Release first

	err := store.Confirm(reservation.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMemoryStore_Release_Success(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 100))

	reservation, _ := store.Reserve("PRD-001", 10)

	err := store.Release(reservation.ID)
	require.NoError(t, err)

	// Stock should be returned to available
	stock, _ := store.GetStock("PRD-001")
	assert.Equal(t, 100, stock.Total)
	assert.Equal(t, 0, stock.Reserved)
	assert.Equal(t, 100, stock.Available())
}

func TestMemoryStore_Release_NotFound(t *testing.T) {
	store := setupStore(t)

	err := store.Release("nonexistent-id")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestMemoryStore_ConcurrentReservations(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 100))

	var wg sync.WaitGroup
	successCount := 0
	var mu sync.Mutex

	// Try to reserve 20 units each, 10 times concurrently.
	// Only 5 should succeed (100 / 20 = 5)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Reserve("PRD-001", 20)
			if err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 5, successCount)

	// All stock should be reserved
	stock, _ := store.GetStock("PRD-001")
	assert.Equal(t, 0, stock.Available())
	assert.Equal(t, 100, stock.Reserved)
}

func TestMemoryStore_ExpiredReservation_CannotConfirm(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 100))

	reservation, _ := store.Reserve("PRD-001", 10)
	reservation.ExpiresAt = time.Now().Add(-time.Minute)

	err := store.Confirm(reservation.ID)
	assert.ErrorIs(t, err, ErrReservationExpired)
}

func TestMemoryStore_ExpireReservations_ReturnsStock(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetStock("PRD-001", 100))

	reservation, _ := store.Reserve("PRD-001", 10)
	reservation.ExpiresAt = time.Now().Add(-time.Minute)

	store.expireStaleHolds()

	assert.Equal(t, domain.StatusExpired, reservation.Status)
	stock, _ := store.GetStock("PRD-001")
	assert.Equal(t, 100, stock.Available())
}
