package handler

import (
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/fishchain/marketplace/internal/api/middleware"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
	"github.com/fishchain/marketplace/internal/infrastructure/realtime"
)

// WSHandler opens the live notification channel.
type WSHandler struct {
	hub      *realtime.Hub
	verifier ports.TokenVerifier
	upgrader *websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, verifier ports.TokenVerifier, upgrader *websocket.Upgrader) *WSHandler {
	return &WSHandler{hub: hub, verifier: verifier, upgrader: upgrader}
}

// Connect authenticates the upgrade request and serves the connection until
// the peer leaves. Browsers cannot set headers on a WebSocket handshake, so
// the token is read from ?token first and the Authorization header second.
//
// @Summary      Live notification channel
// @Tags         notifications
// @Param        token  query  string  true  "Session token"
// @Success      101
// @Failure      401    {object}  messageResponse
// @Router       /ws [get]
func (h *WSHandler) Connect(c echo.Context) error {
	var (
		identity domain.Identity
		err      error
	)
	if token := c.QueryParam("token"); token != "" {
		identity, err = h.verifier.Verify(token)
	} else {
		identity, err = middleware.Authenticate(h.verifier, c.Request().Header.Get(echo.HeaderAuthorization))
	}
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		return nil
	}
	h.hub.Serve(conn, identity)
	return nil
}
