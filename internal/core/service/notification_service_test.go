package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fishchain/marketplace/internal/api/metrics"
	"github.com/fishchain/marketplace/internal/core/domain"
)

func TestNotificationService_Notify_PersistsAndDelivers(t *testing.T) {
	svc, repo, delivery := newNotifier()

	n, err := svc.Notify(context.Background(), "buyer1", domain.NotificationReservationStatus, "confirmed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Read {
		t.Error("new notification must be unread")
	}
	if n.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(repo.items))
	}
	if delivery.count() != 1 {
		t.Fatalf("expected 1 delivery attempt, got %d", delivery.count())
	}
}

func TestNotificationService_Notify_PersistsWithoutLiveChannel(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, nil, discardLogger)

	if _, err := svc.Notify(context.Background(), "buyer1", domain.NotificationSystem, "welcome"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := svc.List(context.Background(), asBuyer, false, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].Message != "welcome" {
		t.Fatalf("expected the notification to be listed, got %+v", items)
	}
}

func TestNotificationService_Notify_PersistenceFailureSkipsDelivery(t *testing.T) {
	svc, repo, delivery := newNotifier()
	repo.createErr = errors.New("db down")

	if _, err := svc.Notify(context.Background(), "buyer1", domain.NotificationSystem, "hi"); err == nil {
		t.Fatal("expected error when persistence fails")
	}
	if delivery.count() != 0 {
		t.Fatal("nothing may be delivered that was not stored")
	}
}

func TestNotificationService_Notify_Validation(t *testing.T) {
	svc, _, _ := newNotifier()

	if _, err := svc.Notify(context.Background(), "", domain.NotificationSystem, "hi"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty recipient, got %v", err)
	}
	if _, err := svc.Notify(context.Background(), "u1", domain.NotificationSystem, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty message, got %v", err)
	}
}

func TestNotificationService_MarkRead_Idempotent(t *testing.T) {
	svc, repo, _ := newNotifier()
	n, _ := svc.Notify(context.Background(), asBuyer.ID, domain.NotificationSystem, "hello")

	if err := svc.MarkRead(context.Background(), asBuyer, n.ID); err != nil {
		t.Fatalf("first mark read: %v", err)
	}
	if err := svc.MarkRead(context.Background(), asBuyer, n.ID); err != nil {
		t.Fatalf("second mark read must not fail: %v", err)
	}
	if !repo.items[n.ID].Read {
		t.Fatal("read flag must be true")
	}
}

func TestNotificationService_MarkRead_OtherRecipient(t *testing.T) {
	svc, _, _ := newNotifier()
	n, _ := svc.Notify(context.Background(), asBuyer.ID, domain.NotificationSystem, "hello")

	if err := svc.MarkRead(context.Background(), asSeller, n.ID); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestNotificationService_UnreadCountAndMarkAll(t *testing.T) {
	svc, _, _ := newNotifier()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _ = svc.Notify(ctx, asBuyer.ID, domain.NotificationSystem, "msg")
	}
	_, _ = svc.Notify(ctx, asSeller.ID, domain.NotificationSystem, "msg")

	count, _ := svc.UnreadCount(ctx, asBuyer)
	if count != 3 {
		t.Fatalf("expected 3 unread, got %d", count)
	}

	changed, err := svc.MarkAllRead(ctx, asBuyer)
	if err != nil || changed != 3 {
		t.Fatalf("expected 3 marked, got %d (%v)", changed, err)
	}
	if count, _ := svc.UnreadCount(ctx, asBuyer); count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
	if count, _ := svc.UnreadCount(ctx, asSeller); count != 1 {
		t.Fatalf("other recipients must be untouched, got %d", count)
	}
}

func TestNotificationService_List_NewestFirst(t *testing.T) {
	svc, _, _ := newNotifier()
	ctx := context.Background()
	_, _ = svc.Notify(ctx, asBuyer.ID, domain.NotificationSystem, "first")
	_, _ = svc.Notify(ctx, asBuyer.ID, domain.NotificationSystem, "second")

	items, _ := svc.List(ctx, asBuyer, false, 10)
	if len(items) != 2 || items[0].Message != "second" {
		t.Fatalf("expected newest first, got %+v", items)
	}
}

func TestNotificationService_Notify_CountsPersistedWithoutDelivery(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, nil, discardLogger)
	created := metrics.NotificationsCreatedTotal.WithLabelValues(string(domain.NotificationSystem))
	before := testutil.ToFloat64(created)

	if _, err := svc.Notify(context.Background(), "vet1", domain.NotificationSystem, "welcome"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	repo.createErr = errors.New("db down")
	_, _ = svc.Notify(context.Background(), "vet1", domain.NotificationSystem, "lost")

	if got := testutil.ToFloat64(created) - before; got != 1 {
		t.Fatalf("expected exactly one counted notification, got %v", got)
	}
}
