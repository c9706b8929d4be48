package realtime

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type fakeConn struct {
	id   string
	full bool

	mu   sync.Mutex
	msgs []Message
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(msg Message) bool {
	if f.full {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return true
}

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func TestHub_PublishReachesEveryConnectionOfUser(t *testing.T) {
	h := NewHub(zerolog.Nop())
	tab1 := &fakeConn{id: "c1"}
	tab2 := &fakeConn{id: "c2"}
	other := &fakeConn{id: "c3"}
	h.Add("u1", tab1)
	h.Add("u1", tab2)
	h.Add("u2", other)

	msg, _ := NewMessage(EventNewNotification, map[string]string{"type": "SYSTEM"})
	if got := h.Publish("u1", msg); got != 2 {
		t.Fatalf("expected 2 deliveries, got %d", got)
	}
	if tab1.received() != 1 || tab2.received() != 1 {
		t.Errorf("expected one message per tab, got %d and %d", tab1.received(), tab2.received())
	}
	if other.received() != 0 {
		t.Errorf("message leaked to another user")
	}
}

func TestHub_PublishToOfflineUserIsNoop(t *testing.T) {
	h := NewHub(zerolog.Nop())
	if got := h.Publish("ghost", Message{Event: EventNewNotification}); got != 0 {
		t.Fatalf("expected 0 deliveries, got %d", got)
	}
}

func TestHub_RemoveDropsConnection(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := &fakeConn{id: "c1"}
	h.Add("u1", c)
	h.Add("u1", c)
	if !h.Online("u1") {
		t.Fatal("expected user online after Add")
	}

	h.Remove("u1", c)
	if h.Online("u1") {
		t.Fatal("expected user offline after Remove")
	}
	if got := h.Publish("u1", Message{Event: EventNewNotification}); got != 0 {
		t.Errorf("expected no delivery after Remove, got %d", got)
	}

	// removing twice is harmless
	h.Remove("u1", c)
}

func TestHub_FullConnectionIsSkipped(t *testing.T) {
	h := NewHub(zerolog.Nop())
	slow := &fakeConn{id: "slow", full: true}
	fast := &fakeConn{id: "fast"}
	h.Add("u1", slow)
	h.Add("u1", fast)

	if got := h.Publish("u1", Message{Event: EventNewNotification}); got != 1 {
		t.Fatalf("expected 1 delivery, got %d", got)
	}
}
