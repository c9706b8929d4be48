package ports

import (
	"context"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// ListReservationsFilter carries the query for reservation listings.
// BuyerID/SellerID are enforced by the service from the caller's role.
type ListReservationsFilter struct {
	BuyerID  string
	SellerID string
	Status   domain.ReservationStatus // optional
	PageRequest
}

// ReservationRepository defines persistence operations for reservations.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, filter ListReservationsFilter) ([]*domain.Reservation, int64, error)
	// UpdateStatus moves a reservation from one status to another. It fails
	// with ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ReservationStatus) error
}

// CreateReservationInput carries a buyer's reservation request.
type CreateReservationInput struct {
	ProductID string
	Quantity  int
	Note      string
}

type ReservationService interface {
	Create(ctx context.Context, actor domain.Identity, in CreateReservationInput) (*domain.Reservation, error)
	List(ctx context.Context, actor domain.Identity, filter ListReservationsFilter) (*ListResult[*domain.Reservation], error)
	Get(ctx context.Context, actor domain.Identity, id string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, actor domain.Identity, id, status string) (*domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Identity, id string) (*domain.Reservation, error)
}
