package models

// Owner is the ownership column shared by every per-user section row.
type Owner struct {
	UserID uint `gorm:"index;not null" json:"user_id"`
}

func (o *Owner) SetOwner(id uint) { o.UserID = id }

func (o *Owner) OwnerID() uint { return o.UserID }
