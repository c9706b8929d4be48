package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/api/metrics"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// NotificationService persists notifications and hands them to live delivery.
// Persistence is the only step that can fail; delivery is fire-and-forget.
type NotificationService struct {
	repo     ports.NotificationRepository
	delivery ports.LiveDelivery
	logger   zerolog.Logger
	now      func() time.Time
}

// NewNotificationService returns a NotificationService. delivery may be nil,
// in which case notifications are only observable through List.
func NewNotificationService(repo ports.NotificationRepository, delivery ports.LiveDelivery, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, delivery: delivery, logger: logger, now: time.Now}
}

// Notify stores a notification for recipientID and attempts a live push.
func (s *NotificationService) Notify(ctx context.Context, recipientID string, kind domain.NotificationType, message string) (*domain.Notification, error) {
	message = strings.TrimSpace(message)
	if recipientID == "" || message == "" {
		return nil, domain.Invalid("notification requires a recipient and a message")
	}
	if kind == "" {
		kind = domain.NotificationSystem
	}

	created, err := s.repo.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Message:     message,
		Type:        kind,
		Read:        false,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipient_id", recipientID).Str("type", string(kind)).Msg("failed to persist notification")
		return nil, err
	}

	metrics.NotificationsCreatedTotal.WithLabelValues(string(kind)).Inc()

	if s.delivery != nil {
		s.delivery.Deliver(created)
	}

	s.logger.Debug().Str("notification_id", created.ID).Str("recipient_id", recipientID).Msg("notification created")
	return created, nil
}

func (s *NotificationService) List(ctx context.Context, actor domain.Identity, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	items, err := s.repo.ListByRecipient(ctx, actor.ID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor domain.Identity) (int64, error) {
	return s.repo.CountUnread(ctx, actor.ID)
}

// MarkRead flips the read flag. Repeating the call on the same id is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Identity, id string) error {
	return s.repo.MarkRead(ctx, id, actor.ID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Identity) (int64, error) {
	return s.repo.MarkAllRead(ctx, actor.ID)
}
