// Package realtime keeps the registry of live WebSocket connections and pushes
// notifications to them.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/api/metrics"
)

// Conn is a registered live connection.
type Conn interface {
	ID() string
	// Send queues msg without blocking and reports whether it was accepted.
	Send(msg Message) bool
}

// Hub maps user IDs to their live connections. A user may hold several
// connections (tabs, devices) at once.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[string]Conn
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		conns: make(map[string]map[string]Conn),
		log:   log,
	}
}

// Add registers c under userID. Adding the same connection twice is a no-op.
func (h *Hub) Add(userID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userID]
	if !ok {
		set = make(map[string]Conn)
		h.conns[userID] = set
	}
	if _, exists := set[c.ID()]; exists {
		return
	}
	set[c.ID()] = c
	metrics.LiveConnections.Inc()

	h.log.Debug().
		Str("user_id", userID).
		Str("conn_id", c.ID()).
		Int("user_conns", len(set)).
		Msg("live connection registered")
}

// Remove drops c from userID's set. Unknown connections are ignored.
func (h *Hub) Remove(userID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userID]
	if !ok {
		return
	}
	if _, exists := set[c.ID()]; !exists {
		return
	}
	delete(set, c.ID())
	if len(set) == 0 {
		delete(h.conns, userID)
	}
	metrics.LiveConnections.Dec()

	h.log.Debug().
		Str("user_id", userID).
		Str("conn_id", c.ID()).
		Msg("live connection removed")
}

// Publish sends msg to every connection of userID and returns how many
// accepted it. An offline user yields zero.
func (h *Hub) Publish(userID string, msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, c := range h.conns[userID] {
		if c.Send(msg) {
			sent++
			continue
		}
		h.log.Warn().
			Str("user_id", userID).
			Str("conn_id", c.ID()).
			Msg("live connection send buffer full, message dropped")
	}
	return sent
}

// Online reports whether userID has at least one live connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}
