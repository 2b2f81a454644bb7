package models

import "time"

// PushSubscription stores one browser push endpoint per row. A user can hold
// several (one per browser/device); dead endpoints are pruned by the
// dispatcher when the push service answers 404/410.
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Endpoint  string    `gorm:"size:500;not null;uniqueIndex" json:"endpoint"`
	P256dh    string    `gorm:"size:255;not null" json:"-"`
	Auth      string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
