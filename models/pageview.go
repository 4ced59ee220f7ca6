package models

import "time"

// PageView stores the portfolio view count of one username on one calendar day.
// Day is "YYYY-MM-DD" in the configured zone so range filters compare lexically on every driver.
type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"index:idx_pv_user_day,unique;size:64;not null" json:"username"`
	Day       string    `gorm:"index:idx_pv_user_day,unique;index;size:10;not null" json:"day"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All returns every model migrated at startup.
func All() []interface{} {
	return []interface{}{
		&User{}, &Profile{}, &Skill{}, &Experience{}, &Education{},
		&Project{}, &Social{}, &Link{}, &PageView{},
	}
}
