package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/INNER-CIRCLE-ICD4/commerce/inventory-service/internal/domain"
)

const (
	// HoldTTL bounds how long a reservation may stay open before the
	// sweeper returns its stock to the pool.
	HoldTTL = 5 * time.Minute

	sweepInterval = 30 * time.Second
)

type stockRecord struct {
	total    int
	reserved int
}

func (r *stockRecord) available() int { return r.total - r.reserved }

// MemoryStore keeps stock levels and open reservations in process memory.
// A background sweeper expires stale holds.
type MemoryStore struct {
	mu     sync.RWMutex
	stock  map[string]*stockRecord
	holds  map[string]*domain.Reservation
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		stock: make(map[string]*stockRecord),
		holds: make(map[string]*domain.Reservation),
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

func (s *MemoryStore) sweepLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.expireStaleHolds()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) expireStaleHolds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, hold := range s.holds {
		if hold.Status != domain.StatusReserved || !hold.IsExpired() {
			continue
		}
		hold.Status = domain.StatusExpired
		s.stock[hold.ProductID].reserved -= hold.Quantity
	}
}

func (s *MemoryStore) GetStock(productID string) (domain.StockInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.stock[productID]
	if !ok {
		return domain.StockInfo{}, ErrProductNotFound
	}
	return domain.StockInfo{
		ProductID: productID,
		Total:     record.total,
		Reserved:  record.reserved,
	}, nil
}

func (s *MemoryStore) Reserve(productID string, quantity int) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.stock[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	if record.available() < quantity {
		return nil, ErrInsufficientStock
	}
	record.reserved += quantity

	now := time.Now()
	hold := &domain.Reservation{
		ID:        uuid.New().String(),
		ProductID: productID,
		Quantity:  quantity,
		Status:    domain.StatusReserved,
		CreatedAt: now,
		ExpiresAt: now.Add(HoldTTL),
	}
	s.holds[hold.ID] = hold
	return hold, nil
}

// Confirm turns a hold into a permanent deduction.
func (s *MemoryStore) Confirm(reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold, ok := s.holds[reservationID]
	if !ok {
		return ErrReservationNotFound
	}
	if hold.Status != domain.StatusReserved {
		return ErrInvalidStatus
	}
	if hold.IsExpired() {
		return ErrReservationExpired
	}

	record := s.stock[hold.ProductID]
	record.total -= hold.Quantity
	record.reserved -= hold.Quantity
	hold.Status = domain.StatusConfirmed
	return nil
}

// Release returns a hold's quantity to the available pool.
func (s *MemoryStore) Release(reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold, ok := s.holds[reservationID]
	if !ok {
		return ErrReservationNotFound
	}
	if hold.Status != domain.StatusReserved {
		return ErrInvalidStatus
	}

	s.stock[hold.ProductID].reserved -= hold.Quantity
	hold.Status = domain.StatusReleased
	return nil
}

func (s *MemoryStore) SetStock(productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productID] = &stockRecord{total: quantity}
	return nil
}

func (s *MemoryStore) Close() error {
	s.closed.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return nil
}
