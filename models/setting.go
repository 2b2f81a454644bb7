package models

import (
	"errors"

	"gorm.io/gorm"
)

// Setting holds the tunable business numbers. One row; seeded at migration
// time so business rules never depend on compile-time constants.
type Setting struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	AppName        string  `gorm:"size:100;default:'TaskEarn'" json:"app_name"`
	MinWithdraw    float64 `gorm:"type:decimal(15,2);not null;default:5.00" json:"min_withdraw"`
	MaxWithdraw    float64 `gorm:"type:decimal(15,2);not null;default:1000.00" json:"max_withdraw"`
	ReferralBonus  float64 `gorm:"type:decimal(15,2);not null;default:1.00" json:"referral_bonus"`
	ClosedRegister bool    `gorm:"not null;default:false" json:"closed_register"`
	Maintenance    bool    `gorm:"not null;default:false" json:"maintenance"`
}

func (Setting) TableName() string {
	return "settings"
}

// GetSetting returns the single settings row, falling back to the documented
// defaults when none has been seeded yet.
func GetSetting(db *gorm.DB) (*Setting, error) {
	var s Setting
	err := db.First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Setting{AppName: "TaskEarn", MinWithdraw: 5.00, MaxWithdraw: 1000.00, ReferralBonus: 1.00}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
