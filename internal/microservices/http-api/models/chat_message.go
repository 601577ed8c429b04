package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content ceilings per sender identity. Anonymous senders always have a
// NULL user reference and the shorter ceiling.
const (
	MaxAnonymousMessageLen     = 50
	MaxAuthenticatedMessageLen = 1000
)

// ChatMessage is immutable once created; there is no edit or delete.
// Seq is a database-assigned sequence: created_at ties order by arrival,
// which random UUIDs cannot provide.
type ChatMessage struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Seq         int64     `json:"-" gorm:"autoIncrement;uniqueIndex:idx_chat_messages_seq"`
	RoomID      string    `json:"room_id" gorm:"type:uuid;not null;index:idx_chat_messages_room_id"`
	UserID      *string   `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Content     string    `json:"content" gorm:"not null;size:1000"`
	IsAnonymous bool      `json:"is_anonymous" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Room *ChatRoom `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	User *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
