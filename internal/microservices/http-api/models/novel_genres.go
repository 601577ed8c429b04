package models

// explicit join model (has its own id)
type NovelGenre struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	NovelID string `json:"novel_id" gorm:"type:uuid;index;not null"`
	GenreID int64  `json:"genre_id" gorm:"index;not null"`
}

func (NovelGenre) TableName() string {
	return "novel_genres"
}
