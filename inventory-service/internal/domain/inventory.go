package domain

import "time"

// ReservationStatus represents the state of a stock reservation
type ReservationStatus string

const (
	StatusReserved  ReservationStatus = "reserved"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusReleased  ReservationStatus = "released"
	StatusExpired   ReservationStatus = "expired"
)

// Reservation is a temporary hold on stock for one product. Orders reserve
// each line separately, so a reservation always covers a single product.
type Reservation struct {
	ID        string
	ProductID string
	Quantity  int
	Status    ReservationStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired checks if the reservation has expired
func (r *Reservation) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// StockInfo contains stock information for a product
type StockInfo struct {
	ProductID string
	Total     int // Total stock in inventory
	Reserved  int // Currently held by open reservations
}

// Available returns the available stock (total - reserved)
func (s StockInfo) Available() int {
	return s.Total - s.Reserved
}
