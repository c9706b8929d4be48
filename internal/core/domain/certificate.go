package domain

import "time"

// CertificateStatus is the veterinary verdict on a product.
type CertificateStatus string

const (
	CertificatePending  CertificateStatus = "PENDING"
	CertificateApproved CertificateStatus = "APPROVED"
	CertificateRejected CertificateStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s CertificateStatus) Valid() bool {
	switch s {
	case CertificatePending, CertificateApproved, CertificateRejected:
		return true
	}
	return false
}

// Certificate is a health certificate issued by a veterinarian for a product.
type Certificate struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	VetID     string            `json:"vet_id"`
	Status    CertificateStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	IssuedAt  time.Time         `json:"issued_at"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// EditableBy reports whether the identity may change the certificate.
func (c *Certificate) EditableBy(id Identity) bool {
	return id.IsAdmin() || c.VetID == id.ID
}
