package models

import "time"

// Transaction types. Amounts are always positive; the sign of the balance
// effect is implied by the type (deposits and rewards add, withdrawals
// subtract).
const (
	TxDeposit       = "deposit"
	TxWithdraw      = "withdraw"
	TxTaskReward    = "task_reward"
	TxReferralBonus = "referral_bonus"
)

const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxRejected  = "rejected"
)

// WalletTransaction is an append-only ledger row. Deposits and withdrawals
// start pending and are settled by an admin exactly once; task_reward and
// referral_bonus rows are created already completed.
type WalletTransaction struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Type           string    `gorm:"size:20;not null;index" json:"type"`
	Amount         float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status         string    `gorm:"size:10;not null;default:'pending';index" json:"status"`
	OrderID        string    `gorm:"size:191;not null;uniqueIndex" json:"order_id"`
	PaymentMethod  *string   `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentDetails *string   `gorm:"type:text" json:"payment_details,omitempty"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// Settleable reports whether a transaction type goes through admin moderation.
func (t *WalletTransaction) Settleable() bool {
	return t.Type == TxDeposit || t.Type == TxWithdraw
}
