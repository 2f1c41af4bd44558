// Package websocket defines the message envelope spoken on /ws.
package websocket

import (
	"encoding/json"
	"time"
)

// MessageType tells the receiver how to correlate a message.
type MessageType string

const (
	MessageTypeRequest      MessageType = "request"
	MessageTypeResponse     MessageType = "response"
	MessageTypeNotification MessageType = "notification"
	MessageTypeError        MessageType = "error"
)

// Message is the envelope for every frame in either direction. Responses and
// errors echo the ID of the request they answer; notifications carry none.
type Message struct {
	ID        string          `json:"id,omitempty"`
	Type      MessageType     `json:"type"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// ErrorPayload is the payload of a MessageTypeError frame.
type ErrorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func newMessage(typ MessageType, id, action string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:        id,
		Type:      typ,
		Action:    action,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// NewRequest builds a client request.
func NewRequest(id, action string, payload any) (*Message, error) {
	return newMessage(MessageTypeRequest, id, action, payload)
}

// NewResponse answers the request with the given id.
func NewResponse(id, action string, payload any) (*Message, error) {
	return newMessage(MessageTypeResponse, id, action, payload)
}

// NewNotification builds a server push.
func NewNotification(action string, payload any) (*Message, error) {
	return newMessage(MessageTypeNotification, "", action, payload)
}

// NewError answers the request with the given id with an error payload.
func NewError(id, action, code, message string, details map[string]any) (*Message, error) {
	return newMessage(MessageTypeError, id, action, ErrorPayload{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// ParsePayload decodes the payload into v. An absent payload leaves v untouched.
func (m *Message) ParsePayload(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
