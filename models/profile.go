package models

import "time"

// Profile holds the header data of a portfolio: tagline, bio and contact details.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Tagline   string    `gorm:"size:255" json:"tagline"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Location  string    `gorm:"size:128" json:"location"`
	Website   string    `gorm:"size:512" json:"website"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
