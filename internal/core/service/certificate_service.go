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

type CertificateService struct {
	certs    ports.CertificateRepository
	products ports.ProductRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewCertificateService(
	certs ports.CertificateRepository,
	products ports.ProductRepository,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *CertificateService {
	return &CertificateService{certs: certs, products: products, notifier: notifier, logger: logger}
}

func (s *CertificateService) List(ctx context.Context, filter ports.ListCertificatesFilter) ([]*domain.Certificate, error) {
	items, err := s.certs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Certificate{}
	}
	return items, nil
}

func (s *CertificateService) Get(ctx context.Context, id string) (*domain.Certificate, error) {
	return s.certs.FindByID(ctx, id)
}

// Create issues a certificate for a product on behalf of the calling vet and
// notifies the product's seller.
func (s *CertificateService) Create(ctx context.Context, actor domain.Identity, in ports.CertificateInput) (*domain.Certificate, error) {
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id is required")
	}
	status, err := parseCertificateStatus(in.Status)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.Invalid("product_id does not reference an existing product")
		}
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.certs.Create(ctx, &domain.Certificate{
		ProductID: product.ID,
		VetID:     actor.ID,
		Status:    status,
		Notes:     in.Notes,
		IssuedAt:  now,
		ExpiresAt: in.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, product.SellerID, domain.NotificationCertificateIssued,
		fmt.Sprintf("A %s health certificate was issued for %q", status, product.Name))

	s.logger.Info().Str("certificate_id", created.ID).Str("product_id", product.ID).Str("vet_id", actor.ID).Msg("certificate issued")
	return created, nil
}

// Update changes status, notes or expiry. The product binding is immutable.
func (s *CertificateService) Update(ctx context.Context, actor domain.Identity, id string, in ports.CertificateInput) (*domain.Certificate, error) {
	cert, err := s.certs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cert.EditableBy(actor) {
		return nil, domain.ErrPermissionDenied
	}
	if in.ProductID != "" && in.ProductID != cert.ProductID {
		return nil, domain.Invalid("product_id cannot be changed")
	}

	if in.Status != "" {
		status, err := parseCertificateStatus(in.Status)
		if err != nil {
			return nil, err
		}
		cert.Status = status
	}
	cert.Notes = in.Notes
	if in.ExpiresAt != nil {
		cert.ExpiresAt = in.ExpiresAt
	}
	cert.UpdatedAt = time.Now().UTC()

	if err := s.certs.Update(ctx, cert); err != nil {
		return nil, err
	}

	if product, err := s.products.FindByID(ctx, cert.ProductID); err == nil {
		s.notify(ctx, product.SellerID, domain.NotificationCertificateUpdated,
			fmt.Sprintf("The health certificate for %q is now %s", product.Name, cert.Status))
	} else {
		s.logger.Warn().Err(err).Str("certificate_id", id).Msg("certificate product lookup failed, seller not notified")
	}

	return cert, nil
}

func (s *CertificateService) Delete(ctx context.Context, id string) error {
	return s.certs.Delete(ctx, id)
}

// notify never fails the triggering mutation; the certificate is already stored.
func (s *CertificateService) notify(ctx context.Context, recipientID string, kind domain.NotificationType, msg string) {
	if _, err := s.notifier.Notify(ctx, recipientID, kind, msg); err != nil {
		s.logger.Warn().Err(err).Str("recipient_id", recipientID).Msg("certificate notification failed")
	}
}

func parseCertificateStatus(s string) (domain.CertificateStatus, error) {
	if s == "" {
		return domain.CertificatePending, nil
	}
	status := domain.CertificateStatus(s)
	if !status.Valid() {
		return "", domain.Invalid("status must be one of: PENDING APPROVED REJECTED")
	}
	return status, nil
}
