package models

import "time"

// Referral links a new signup to the owner of the referral code they used.
// The unique index on ReferredID enforces at-most-one attribution per new
// user, no matter how often the signup flow retries.
type Referral struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReferrerID  uint      `gorm:"not null;index" json:"referrer_id"`
	ReferredID  uint      `gorm:"not null;uniqueIndex" json:"referred_id"`
	BonusAmount float64   `gorm:"type:decimal(15,2);not null" json:"bonus_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
