package realtime

import (
	"encoding/json"

	"github.com/fishchain/marketplace/internal/core/domain"
)

// Event names exchanged on the live channel.
const (
	EventRegisterUser    = "register-user"
	EventRegistered      = "registered"
	EventNewNotification = "new-notification"
	EventError           = "error"
)

// Message is the envelope for every frame in either direction.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type registerData struct {
	UserID string `json:"userId"`
}

type notificationData struct {
	Type    domain.NotificationType `json:"type"`
	Payload *domain.Notification    `json:"payload"`
}

type errorData struct {
	Message string `json:"message"`
}

// NewMessage marshals data into a Message for event.
func NewMessage(event string, data any) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: raw}, nil
}

// NotificationMessage builds the new-notification frame for n.
func NotificationMessage(n *domain.Notification) (Message, error) {
	return NewMessage(EventNewNotification, notificationData{Type: n.Type, Payload: n})
}

func errorMessage(text string) Message {
	msg, _ := NewMessage(EventError, errorData{Message: text})
	return msg
}
