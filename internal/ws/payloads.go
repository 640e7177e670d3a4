package ws

import (
	"encoding/json"

	"taskboard/internal/domain"
)

// Envelope is the wire format for every message on the channel.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// client → server
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// server → client
type AuthenticatedPayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type TaskDeletedPayload struct {
	TaskID string `json:"taskId"`
}

type TaskAssignedPayload struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

func encode(eventType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Data: raw})
}
