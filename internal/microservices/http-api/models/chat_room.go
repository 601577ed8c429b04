package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat room types
const (
	RoomTypeGeneral = "general"
	RoomTypeRegion  = "region"
	RoomTypeNovel   = "novel"
)

type ChatRoom struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	Type        string    `json:"type" gorm:"not null;default:'general';check:type IN ('general','region','novel')"`
	RegionID    *int64    `json:"region_id,omitempty" gorm:"index"`
	NovelID     *string   `json:"novel_id,omitempty" gorm:"type:uuid;index"`
	CreatedBy   *string   `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Region *Region `json:"region,omitempty" gorm:"foreignKey:RegionID"`
	Novel  *Novel  `json:"novel,omitempty" gorm:"foreignKey:NovelID"`
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}
