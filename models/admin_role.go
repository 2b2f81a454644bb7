package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminRole grants a user the admin capability. The presence of a row, not a
// flag on the profile, is the source of truth for every authorization check.
type AdminRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	GrantedBy *uint     `json:"granted_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdminRole) TableName() string {
	return "admin_roles"
}

func IsAdmin(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	if err := db.Model(&AdminRole{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
