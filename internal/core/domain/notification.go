package domain

import "time"

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotificationReservationCreated NotificationType = "RESERVATION_CREATED"
	NotificationReservationStatus  NotificationType = "RESERVATION_STATUS"
	NotificationCertificateIssued  NotificationType = "CERTIFICATE_ISSUED"
	NotificationCertificateUpdated NotificationType = "CERTIFICATE_UPDATED"
	NotificationSystem             NotificationType = "SYSTEM"
)

// Notification is a durable message for one recipient. Only Read ever changes.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
