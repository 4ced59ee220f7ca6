package models

import "time"

// Skill is a single skill label grouped under a free-form category.
type Skill struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Owner
	Name      string    `gorm:"size:64;not null" json:"name"`
	Category  string    `gorm:"size:64" json:"category"`
	Level     string    `gorm:"size:32" json:"level"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
