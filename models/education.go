package models

import "time"

// Education is a school or degree entry. EndDate is nil while studies are ongoing.
type Education struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Owner
	Degree       string     `gorm:"size:128;not null" json:"degree"`
	Institution  string     `gorm:"size:128;not null" json:"institution"`
	FieldOfStudy string     `gorm:"size:128" json:"field_of_study"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Description  string     `gorm:"type:text" json:"description"`
	SortOrder    int        `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
