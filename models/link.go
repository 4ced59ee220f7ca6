package models

import "time"

// Link is a free-form labelled link shown on the portfolio page.
type Link struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Owner
	Title     string    `gorm:"size:128;not null" json:"title"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
