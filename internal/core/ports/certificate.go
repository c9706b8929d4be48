package ports

import (
	"context"
	"time"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// ListCertificatesFilter narrows the certificate listing.
type ListCertificatesFilter struct {
	ProductID string // optional
	VetID     string // optional
}

// CertificateRepository defines persistence operations for certificates.
type CertificateRepository interface {
	Create(ctx context.Context, c *domain.Certificate) (*domain.Certificate, error)
	FindByID(ctx context.Context, id string) (*domain.Certificate, error)
	List(ctx context.Context, filter ListCertificatesFilter) ([]*domain.Certificate, error)
	Update(ctx context.Context, c *domain.Certificate) error
	Delete(ctx context.Context, id string) error
}

// CertificateInput carries the writable certificate fields.
type CertificateInput struct {
	ProductID string
	Status    string
	Notes     string
	ExpiresAt *time.Time
}

type CertificateService interface {
	List(ctx context.Context, filter ListCertificatesFilter) ([]*domain.Certificate, error)
	Get(ctx context.Context, id string) (*domain.Certificate, error)
	Create(ctx context.Context, actor domain.Identity, in CertificateInput) (*domain.Certificate, error)
	Update(ctx context.Context, actor domain.Identity, id string, in CertificateInput) (*domain.Certificate, error)
	Delete(ctx context.Context, id string) error
}
