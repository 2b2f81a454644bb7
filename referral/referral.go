// Package referral implements one-time referral attribution: linking a new
// signup to the owner of the code they used and paying the fixed bonus.
package referral

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"

	"gorm.io/gorm"
)

var (
	ErrCodeNotFound      = errors.New("referral code not found")
	ErrSelfReferral      = errors.New("self referral")
	ErrAlreadyAttributed = errors.New("user already attributed")
)

// Attribute links newUserID to the profile owning code and credits the bonus.
// It runs at most once per new user: the unique index on referrals.referred_id
// holds even when two signup retries race. Callers treat every error here as
// log-only; attribution failures never surface to the signing-up user.
func Attribute(db *gorm.DB, code string, newUserID uint, bonus float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrCodeNotFound
	}

	var referrer models.Profile
	if err := db.Where("referral_code = ?", code).First(&referrer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		return err
	}
	if referrer.ID == newUserID {
		return ErrSelfReferral
	}

	var existing int64
	if err := db.Model(&models.Referral{}).Where("referred_id = ?", newUserID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return ErrAlreadyAttributed
	}

	bonus = utils.RoundMoney(bonus)

	return db.Transaction(func(tx *gorm.DB) error {
		ref := models.Referral{
			ReferrerID:  referrer.ID,
			ReferredID:  newUserID,
			BonusAmount: bonus,
		}
		if err := tx.Create(&ref).Error; err != nil {
			// Lost the race against a concurrent attribution attempt.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAttributed
			}
			return err
		}

		if err := tx.Model(&models.Profile{}).Where("id = ?", newUserID).
			Update("referred_by_code", code).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Profile{}).Where("id = ?", referrer.ID).Updates(map[string]interface{}{
			"total_referrals":   gorm.Expr("total_referrals + 1"),
			"referral_earnings": gorm.Expr("referral_earnings + ?", bonus),
			"wallet_balance":    gorm.Expr("wallet_balance + ?", bonus),
		}).Error; err != nil {
			return err
		}

		desc := fmt.Sprintf("Referral bonus for inviting user #%d", newUserID)
		trx := models.WalletTransaction{
			UserID:      referrer.ID,
			Type:        models.TxReferralBonus,
			Amount:      bonus,
			Status:      models.TxCompleted,
			OrderID:     utils.GenerateOrderID(referrer.ID),
			Description: &desc,
		}
		return tx.Create(&trx).Error
	})
}
