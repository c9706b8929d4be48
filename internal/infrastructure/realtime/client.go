package realtime

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// NewUpgrader returns an upgrader accepting the given origins. "*" accepts
// any origin; an empty list keeps gorilla's same-host check.
func NewUpgrader(origins []string) *websocket.Upgrader {
	u := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(origins) == 0 {
		return u
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	u.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return allowed["*"] || origin == "" || allowed[origin]
	}
	return u
}

// Client is one authenticated WebSocket connection. It joins the hub only
// after the peer sends register-user for its own identity.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	identity domain.Identity
	send     chan Message
	done     chan struct{}
	log      zerolog.Logger

	// owned by readPump
	registered bool
}

// Serve runs conn for identity until the peer disconnects. It blocks, so the
// HTTP handler that upgraded the request keeps its goroutine.
func (h *Hub) Serve(conn *websocket.Conn, identity domain.Identity) {
	c := &Client{
		id:       uuid.NewString(),
		hub:      h,
		conn:     conn,
		identity: identity,
		send:     make(chan Message, sendBuffer),
		done:     make(chan struct{}),
		log:      h.log.With().Str("user_id", identity.ID).Logger(),
	}
	c.log = c.log.With().Str("conn_id", c.id).Logger()

	go c.writePump()
	c.readPump()
}

func (c *Client) ID() string { return c.id }

func (c *Client) Send(msg Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		if c.registered {
			c.hub.Remove(c.identity.ID, c)
		}
		close(c.done)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("live connection closed unexpectedly")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.Send(errorMessage("malformed message"))
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg Message) {
	switch msg.Event {
	case EventRegisterUser:
		if err := c.register(msg.Data); err != nil {
			c.log.Warn().Err(err).Msg("register-user rejected")
			c.Send(errorMessage(err.Error()))
			return
		}
		ack, _ := NewMessage(EventRegistered, registerData{UserID: c.identity.ID})
		c.Send(ack)
	default:
		c.Send(errorMessage("unknown event"))
	}
}

var errForeignUser = errors.New("userId does not match the authenticated user")

func (c *Client) register(raw json.RawMessage) error {
	var data registerData
	if err := json.Unmarshal(raw, &data); err != nil || data.UserID == "" {
		return errors.New("userId is required")
	}
	if data.UserID != c.identity.ID {
		return errForeignUser
	}
	if !c.registered {
		c.hub.Add(c.identity.ID, c)
		c.registered = true
	}
	return nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
