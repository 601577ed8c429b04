package dto

import (
	"time"

	"novelhub/internal/microservices/http-api/models"
)

// ChatRoomResponse for the room directory
type ChatRoomResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
	RegionID    *int64  `json:"region_id,omitempty"`
	NovelID     *string `json:"novel_id,omitempty"`
}

func ChatRoomFromModel(r models.ChatRoom) ChatRoomResponse {
	return ChatRoomResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		RegionID:    r.RegionID,
		NovelID:     r.NovelID,
	}
}

// CreateChatRoomDTO for administrative room creation
type CreateChatRoomDTO struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type" binding:"required"`
	RegionID    *int64  `json:"region_id,omitempty"`
	NovelID     *string `json:"novel_id,omitempty"`
}

// ChatMessageResponse for the bounded history fetch. Anonymous messages
// carry no username and is_anonymous=true.
type ChatMessageResponse struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id"`
	Username    *string   `json:"username,omitempty"`
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

func ChatMessageFromModel(m models.ChatMessage) ChatMessageResponse {
	resp := ChatMessageResponse{
		ID:          m.ID,
		RoomID:      m.RoomID,
		Content:     m.Content,
		IsAnonymous: m.IsAnonymous,
		CreatedAt:   m.CreatedAt,
	}
	if !m.IsAnonymous && m.User != nil {
		resp.Username = &m.User.Username
	}
	return resp
}
