package models

import "time"

// Profile is the public projection of a user, created at sign-up and
// read-only to the rest of the application.
type Profile struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	IsPremium   bool      `json:"is_premium" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// 1:1 with the auth identity
	User *User `json:"-" gorm:"foreignKey:ID;references:ID"`
}

func (Profile) TableName() string {
	return "profiles"
}
