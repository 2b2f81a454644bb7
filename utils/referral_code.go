package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/erikawesome453-wq/task-dash-earn/models"

	"gorm.io/gorm"
)

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueReferralCode draws uppercase alphanumeric codes until one is
// free of collisions in the profiles table.
func GenerateUniqueReferralCode(db *gorm.DB, length int) (string, error) {
	maxAttempts := 100

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomString(referralAlphabet, length)
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Profile{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique referral code after %d attempts", maxAttempts)
}

func randomString(alphabet string, length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(out), nil
}
