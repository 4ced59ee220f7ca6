package models

import "time"

// Social is a social network profile. Only visible rows appear on the portfolio and resume.
type Social struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Owner
	Platform  string    `gorm:"size:50;not null" json:"platform"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Visible   bool      `gorm:"not null" json:"visible"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
