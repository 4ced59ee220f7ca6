package models

import "time"

// Experience is a work history entry. EndDate is nil while the position is ongoing.
type Experience struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Owner
	Title       string     `gorm:"size:128;not null" json:"title"`
	Company     string     `gorm:"size:128;not null" json:"company"`
	Location    string     `gorm:"size:128" json:"location"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `gorm:"type:text" json:"description"`
	SortOrder   int        `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
