package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation is a buyer's hold on a quantity of a product.
type Reservation struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	BuyerID   string            `json:"buyer_id"`
	SellerID  string            `json:"seller_id"`
	Quantity  int               `json:"quantity"`
	Status    ReservationStatus `json:"status"`
	Note      string            `json:"note,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// VisibleTo reports whether the identity is a party to the reservation.
func (r *Reservation) VisibleTo(id Identity) bool {
	return id.IsAdmin() || r.BuyerID == id.ID || r.SellerID == id.ID
}
