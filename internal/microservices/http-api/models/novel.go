package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Novel statuses
const (
	NovelStatusOngoing   = "ongoing"
	NovelStatusCompleted = "completed"
	NovelStatusHiatus    = "hiatus"
	NovelStatusDropped   = "dropped"
)

// NovelLink is one external link (official publisher, fan translation, ...).
type NovelLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NovelLinks is stored as a JSONB column.
type NovelLinks []NovelLink

func (l NovelLinks) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *NovelLinks) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for NovelLinks: %T", value)
	}
	return json.Unmarshal(data, l)
}

// StringList is stored as a JSONB column (alternative titles).
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	return json.Unmarshal(data, s)
}

type Novel struct {
	ID                string     `json:"id" gorm:"primaryKey;type:uuid"`
	Title             string     `json:"title" gorm:"not null;index"`
	AlternativeTitles StringList `json:"alternative_titles,omitempty" gorm:"type:jsonb"`
	Author            string     `json:"author" gorm:"not null;index"`
	RegionID          int64      `json:"region_id" gorm:"not null;index"`
	Summary           string     `json:"summary" gorm:"type:text"`
	CoverImageURL     *string    `json:"cover_image_url,omitempty"`
	Status            string     `json:"status" gorm:"not null;default:'ongoing';check:status IN ('ongoing','completed','hiatus','dropped')"`
	PublicationYear   *int       `json:"publication_year,omitempty"`
	TotalChapters     *int       `json:"total_chapters,omitempty"`
	OfficialLinks     NovelLinks `json:"official_links,omitempty" gorm:"type:jsonb"`
	TranslationLinks  NovelLinks `json:"translation_links,omitempty" gorm:"type:jsonb"`
	CreatedBy         *string    `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// associations
	Region Region  `json:"region,omitempty" gorm:"foreignKey:RegionID"`
	Genres []Genre `json:"genres,omitempty" gorm:"many2many:novel_genres;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate hook to set UUID before creating a Novel
func (n *Novel) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

func (Novel) TableName() string {
	return "novels"
}

// ValidNovelStatus reports whether s is one of the recognized novel statuses.
func ValidNovelStatus(s string) bool {
	switch s {
	case NovelStatusOngoing, NovelStatusCompleted, NovelStatusHiatus, NovelStatusDropped:
		return true
	}
	return false
}
