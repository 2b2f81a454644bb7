package referral

import (
	"fmt"
	"testing"

	"github.com/erikawesome453-wq/task-dash-earn/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Referral{}, &models.WalletTransaction{}))
	return db
}

func createProfile(t *testing.T, db *gorm.DB, username, code string) *models.Profile {
	t.Helper()
	p := &models.Profile{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "x",
		ReferralCode: code,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestAttribute_Success(t *testing.T) {
	db := setupDB(t)
	referrer := createProfile(t, db, "referrer", "REF12345")
	newUser := createProfile(t, db, "newbie", "NEW12345")

	require.NoError(t, Attribute(db, "ref12345", newUser.ID, 1.00))

	var ref models.Referral
	require.NoError(t, db.Where("referred_id = ?", newUser.ID).First(&ref).Error)
	require.Equal(t, referrer.ID, ref.ReferrerID)
	require.Equal(t, 1.00, ref.BonusAmount)

	var r models.Profile
	require.NoError(t, db.First(&r, referrer.ID).Error)
	require.Equal(t, uint(1), r.TotalReferrals)
	require.Equal(t, 1.00, r.ReferralEarnings)
	require.Equal(t, 1.00, r.WalletBalance)

	var n models.Profile
	require.NoError(t, db.First(&n, newUser.ID).Error)
	require.NotNil(t, n.ReferredByCode)
	require.Equal(t, "REF12345", *n.ReferredByCode)

	var trx models.WalletTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", referrer.ID, models.TxReferralBonus).First(&trx).Error)
	require.Equal(t, models.TxCompleted, trx.Status)
	require.Equal(t, 1.00, trx.Amount)
}

func TestAttribute_UnknownCode(t *testing.T) {
	db := setupDB(t)
	newUser := createProfile(t, db, "newbie", "NEW12345")

	require.ErrorIs(t, Attribute(db, "NOPE0000", newUser.ID, 1.00), ErrCodeNotFound)
	require.ErrorIs(t, Attribute(db, "", newUser.ID, 1.00), ErrCodeNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAttribute_SelfReferral(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "loner", "SELF1234")

	require.ErrorIs(t, Attribute(db, "SELF1234", user.ID, 1.00), ErrSelfReferral)

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	require.Zero(t, count)

	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Zero(t, p.WalletBalance)
	require.Zero(t, p.TotalReferrals)
}

func TestAttribute_AtMostOnce(t *testing.T) {
	db := setupDB(t)
	referrer := createProfile(t, db, "referrer", "REF12345")
	other := createProfile(t, db, "other", "OTH12345")
	newUser := createProfile(t, db, "newbie", "NEW12345")

	require.NoError(t, Attribute(db, "REF12345", newUser.ID, 1.00))
	// Retrying, even with a different code, is a no-op.
	require.ErrorIs(t, Attribute(db, "REF12345", newUser.ID, 1.00), ErrAlreadyAttributed)
	require.ErrorIs(t, Attribute(db, "OTH12345", newUser.ID, 1.00), ErrAlreadyAttributed)

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Where("referred_id = ?", newUser.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)

	var r models.Profile
	require.NoError(t, db.First(&r, referrer.ID).Error)
	require.Equal(t, uint(1), r.TotalReferrals)
	require.Equal(t, 1.00, r.WalletBalance)

	var o models.Profile
	require.NoError(t, db.First(&o, other.ID).Error)
	require.Zero(t, o.TotalReferrals)
	require.Zero(t, o.WalletBalance)
}
