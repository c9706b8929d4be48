package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

type ReservationService struct {
	reservations ports.ReservationRepository
	products     ports.ProductRepository
	notifier     ports.Notifier
	logger       zerolog.Logger
}

func NewReservationService(
	reservations ports.ReservationRepository,
	products ports.ProductRepository,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *ReservationService {
	return &ReservationService{reservations: reservations, products: products, notifier: notifier, logger: logger}
}

// Create holds stock for the calling buyer and notifies the seller.
func (s *ReservationService) Create(ctx context.Context, actor domain.Identity, in ports.CreateReservationInput) (*domain.Reservation, error) {
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id is required")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity must be greater than 0")
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.SellerID == actor.ID {
		return nil, domain.Invalid("sellers cannot reserve their own products")
	}

	if err := s.products.AdjustQuantity(ctx, product.ID, -in.Quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.reservations.Create(ctx, &domain.Reservation{
		ProductID: product.ID,
		BuyerID:   actor.ID,
		SellerID:  product.SellerID,
		Quantity:  in.Quantity,
		Status:    domain.ReservationPending,
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.restock(ctx, product.ID, in.Quantity)
		return nil, err
	}

	s.notify(ctx, product.SellerID, domain.NotificationReservationCreated,
		fmt.Sprintf("New reservation of %d %s for %q", in.Quantity, product.Unit, product.Name))

	s.logger.Info().Str("reservation_id", created.ID).Str("product_id", product.ID).Str("buyer_id", actor.ID).Msg("reservation created")
	return created, nil
}

// List scopes the query by the caller: buyers see their own reservations,
// sellers the ones on their products, admins everything.
func (s *ReservationService) List(ctx context.Context, actor domain.Identity, filter ports.ListReservationsFilter) (*ports.ListResult[*domain.Reservation], error) {
	filter.BuyerID, filter.SellerID = "", ""
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleBuyer:
		filter.BuyerID = actor.ID
	case domain.RoleSeller:
		filter.SellerID = actor.ID
	default:
		return nil, domain.ErrPermissionDenied
	}
	filter.PageRequest = filter.PageRequest.Normalize()

	items, total, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ports.NewListResult(items, total, filter.PageRequest), nil
}

func (s *ReservationService) Get(ctx context.Context, actor domain.Identity, id string) (*domain.Reservation, error) {
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.VisibleTo(actor) {
		// Do not reveal reservations the caller is not a party to.
		return nil, domain.ErrReservationNotFound
	}
	return r, nil
}

// UpdateStatus is the seller's (or an admin's) decision on a reservation.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor domain.Identity, id, status string) (*domain.Reservation, error) {
	next := domain.ReservationStatus(status)
	switch next {
	case domain.ReservationConfirmed, domain.ReservationCancelled, domain.ReservationCompleted:
	default:
		return nil, domain.Invalid("status must be one of: CONFIRMED CANCELLED COMPLETED")
	}

	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && r.SellerID != actor.ID {
		return nil, domain.ErrPermissionDenied
	}

	if err := s.transition(ctx, r, next); err != nil {
		return nil, err
	}

	s.notify(ctx, r.BuyerID, domain.NotificationReservationStatus,
		fmt.Sprintf("Your reservation %s is now %s", r.ID, r.Status))
	return r, nil
}

// Cancel lets the buyer withdraw a reservation; stock is returned.
func (s *ReservationService) Cancel(ctx context.Context, actor domain.Identity, id string) (*domain.Reservation, error) {
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && r.BuyerID != actor.ID {
		return nil, domain.ErrPermissionDenied
	}

	if err := s.transition(ctx, r, domain.ReservationCancelled); err != nil {
		return nil, err
	}

	s.notify(ctx, r.SellerID, domain.NotificationReservationStatus,
		fmt.Sprintf("Reservation %s was cancelled by the buyer", r.ID))
	return r, nil
}

func (s *ReservationService) transition(ctx context.Context, r *domain.Reservation, next domain.ReservationStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, r.Status, next)
	}
	if err := s.reservations.UpdateStatus(ctx, r.ID, r.Status, next); err != nil {
		return err
	}
	if next == domain.ReservationCancelled {
		s.restock(ctx, r.ProductID, r.Quantity)
	}

	s.logger.Info().Str("reservation_id", r.ID).Str("from", string(r.Status)).Str("to", string(next)).Msg("reservation status changed")
	r.Status = next
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *ReservationService) restock(ctx context.Context, productID string, qty int) {
	if err := s.products.AdjustQuantity(ctx, productID, qty); err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		s.logger.Error().Err(err).Str("product_id", productID).Int("quantity", qty).Msg("failed to restock product")
	}
}

func (s *ReservationService) notify(ctx context.Context, recipientID string, kind domain.NotificationType, msg string) {
	if _, err := s.notifier.Notify(ctx, recipientID, kind, msg); err != nil {
		s.logger.Warn().Err(err).Str("recipient_id", recipientID).Msg("reservation notification failed")
	}
}
