package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fishchain/marketplace/internal/core/domain"
)

func TestNotificationHandler_List_UnreadFilter(t *testing.T) {
	stub := &stubNotificationService{
		listFn: func(ctx context.Context, actor domain.Identity, unreadOnly bool, limit int) ([]*domain.Notification, error) {
			if actor.ID != buyerID.ID || !unreadOnly || limit != 10 {
				t.Fatalf("unexpected args: %s %v %d", actor.ID, unreadOnly, limit)
			}
			return []*domain.Notification{{ID: "n1", RecipientID: actor.ID}}, nil
		},
	}
	h := NewNotificationHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/notifications?unread=true&limit=10", nil, &buyerID)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var items []domain.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil || len(items) != 1 {
		t.Fatalf("unexpected body %q: %v", rec.Body.String(), err)
	}
}

func TestNotificationHandler_MarkRead_Idempotent(t *testing.T) {
	calls := 0
	stub := &stubNotificationService{
		markReadFn: func(ctx context.Context, actor domain.Identity, id string) error {
			calls++
			return nil
		},
	}
	h := NewNotificationHandler(stub)

	for i := 0; i < 2; i++ {
		c, rec := newContext(http.MethodPatch, "/api/notifications/n1/read", nil, &buyerID)
		c.SetParamNames("id")
		c.SetParamValues("n1")
		if err := h.MarkRead(c); err != nil {
			t.Fatalf("call %d: handler error: %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 service calls, got %d", calls)
	}
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	h := NewNotificationHandler(&stubNotificationService{})

	c, rec := newContext(http.MethodGet, "/api/notifications/unread-count", nil, &buyerID)
	if err := h.UnreadCount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp unreadCountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Count != 3 {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
