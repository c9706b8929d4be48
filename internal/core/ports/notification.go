package ports

import (
	"context"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	// ListByRecipient returns the newest notifications first.
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	// MarkRead sets read=true on a notification owned by recipientID. It
	// succeeds when the flag is already set.
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

// LiveDelivery pushes a persisted notification to a connected recipient.
// Implementations are best-effort and never report failure.
type LiveDelivery interface {
	Deliver(n *domain.Notification)
}

// Notifier is the fan-out entry point used by other services.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, kind domain.NotificationType, message string) (*domain.Notification, error)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, actor domain.Identity, unreadOnly bool, limit int) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, actor domain.Identity) (int64, error)
	MarkRead(ctx context.Context, actor domain.Identity, id string) error
	MarkAllRead(ctx context.Context, actor domain.Identity) (int64, error)
}
