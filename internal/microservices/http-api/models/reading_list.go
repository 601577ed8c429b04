package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reading-list statuses
const (
	ReadingStatusReading    = "reading"
	ReadingStatusCompleted  = "completed"
	ReadingStatusPlanToRead = "plan_to_read"
	ReadingStatusOnHold     = "on_hold"
	ReadingStatusDropped    = "dropped"
)

// ReadingListEntry is a user's personal tracking record for one novel.
// The composite unique index backs the (user, novel) upsert.
type ReadingListEntry struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID         string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reading_lists_user_novel"`
	NovelID        string    `json:"novel_id" gorm:"type:uuid;not null;uniqueIndex:idx_reading_lists_user_novel"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('reading','completed','plan_to_read','on_hold','dropped')"`
	Rating         *int      `json:"rating,omitempty" gorm:"check:rating IS NULL OR (rating >= 1 AND rating <= 5)"`
	CurrentChapter *int      `json:"current_chapter,omitempty"`
	Notes          *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Novel *Novel `json:"novel,omitempty" gorm:"foreignKey:NovelID"`
}

func (e *ReadingListEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

func (ReadingListEntry) TableName() string {
	return "reading_lists"
}

// ValidReadingStatus reports whether s is one of the recognized list statuses.
func ValidReadingStatus(s string) bool {
	switch s {
	case ReadingStatusReading, ReadingStatusCompleted, ReadingStatusPlanToRead,
		ReadingStatusOnHold, ReadingStatusDropped:
		return true
	}
	return false
}
