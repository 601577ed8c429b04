package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"novelhub/internal/microservices/http-api/dto"
)

// Message protocol definitions

// Message types and structures
type MessageType string

const (
	TypeJoin    MessageType = "join"    // client subscribes to a room
	TypeLeave   MessageType = "leave"   // client leaves its current room
	TypeChat    MessageType = "chat"    // chat message (both directions)
	TypeHistory MessageType = "history" // bounded history delivered on join
	TypeSystem  MessageType = "system"  // system message
	TypeError   MessageType = "error"   // rejected send or bad request
)

// Message is one WebSocket frame. Every server frame that belongs to a
// room carries the room id so receivers can discard payloads for a room
// they have already left.
type Message struct {
	Type      MessageType               `json:"type"`
	RoomID    string                    `json:"room_id,omitempty"`
	Content   string                    `json:"content,omitempty"`
	Message   *dto.ChatMessageResponse  `json:"message,omitempty"`  // set for live chat frames
	Messages  []dto.ChatMessageResponse `json:"messages,omitempty"` // set for history frames
	Timestamp time.Time                 `json:"timestamp"`
}

// NewChatMessage wraps one persisted message for live fan-out.
func NewChatMessage(payload *dto.ChatMessageResponse) *Message {
	return &Message{
		Type:      TypeChat,
		RoomID:    payload.RoomID,
		Message:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryMessage carries the bounded history window, tagged with the
// room it belongs to.
func NewHistoryMessage(roomID string, messages []dto.ChatMessageResponse) *Message {
	return &Message{
		Type:      TypeHistory,
		RoomID:    roomID,
		Messages:  messages,
		Timestamp: time.Now().UTC(),
	}
}

// specify the message for system
func NewSystemMessage(roomID, content string) *Message {
	return &Message{
		Type:      TypeSystem,
		RoomID:    roomID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorMessage reports a rejected send or bad request back to one client.
func NewErrorMessage(roomID, content string) *Message {
	return &Message{
		Type:      TypeError,
		RoomID:    roomID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("Failed to marshal message to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

// MessageFromJSON: unmarshal JSON data to Message struct
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
