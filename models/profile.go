package models

import "time"

type Profile struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"size:100;not null" json:"username"`
	Email            string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Phone            string     `gorm:"size:20" json:"phone,omitempty"`
	Password         string     `gorm:"size:255;not null" json:"-"`
	PaymentMethod    string     `gorm:"size:50" json:"payment_method,omitempty"`
	WalletBalance    float64    `gorm:"type:decimal(15,2);not null;default:0" json:"wallet_balance"`
	TotalDeposited   float64    `gorm:"type:decimal(15,2);not null;default:0" json:"total_deposited"`
	TotalEarned      float64    `gorm:"type:decimal(15,2);not null;default:0" json:"total_earned"`
	ReferralEarnings float64    `gorm:"type:decimal(15,2);not null;default:0" json:"referral_earnings"`
	TotalReferrals   uint       `gorm:"not null;default:0" json:"total_referrals"`
	VIPLevel         int        `gorm:"column:vip_level;not null;default:0" json:"vip_level"`
	ReferralCode     string     `gorm:"size:20;uniqueIndex;not null" json:"referral_code"`
	ReferredByCode   *string    `gorm:"size:20" json:"referred_by_code,omitempty"`
	LastTaskDate     *string    `gorm:"size:10" json:"last_task_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}
