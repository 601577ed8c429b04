package models

import "time"

// Region is the origin categorization for a novel (e.g. country of origin).
// Static reference data.
type Region struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"unique;not null"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null;size:8"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Region) TableName() string {
	return "regions"
}
