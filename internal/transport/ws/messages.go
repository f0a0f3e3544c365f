package ws

import (
	"time"

	"chairs/internal/app"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgStartMusic  MessageType = "start_music"
	MsgStopMusic   MessageType = "stop_music"
	MsgToggleMusic MessageType = "toggle_music"
	MsgReset       MessageType = "reset"
	MsgPing        MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgState     MessageType = MessageType(app.BroadcastState)
	MsgTrace     MessageType = MessageType(app.BroadcastTrace)
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return newServerMessageAt(msgType, payload, time.Now())
}

func newServerMessageAt(msgType MessageType, payload interface{}, at time.Time) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
	}
}

// fromBroadcast wraps a table update in the wire envelope
func fromBroadcast(b *app.Broadcast) *ServerMessage {
	return newServerMessageAt(MessageType(b.Type), b.Payload, b.Timestamp)
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ClientID string         `json:"clientId"`
	RoomCode string         `json:"roomCode"`
	State    app.StateView  `json:"state"`
	Palette  map[int]string `json:"palette"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage    = "INVALID_MESSAGE"
	ErrCodeTableNotFound     = "TABLE_NOT_FOUND"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeGameOver          = "GAME_OVER"
	ErrCodeSessionClosed     = "SESSION_CLOSED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)
