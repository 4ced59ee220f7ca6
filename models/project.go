package models

import "time"

// Project is a showcased piece of work.
type Project struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Owner
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	URL         string    `gorm:"size:512" json:"url"`
	RepoURL     string    `gorm:"size:512" json:"repo_url"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	TechStack   string    `gorm:"size:255" json:"tech_stack"` // comma separated
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
