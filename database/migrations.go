package database

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/erikawesome453-wq/task-dash-earn/models"

	"gorm.io/gorm"
)

// RunMigrations applies the schema and seeds the settings row. The
// ADMIN_EMAIL env variable bootstraps the first admin role so a fresh
// deployment has a working moderation panel.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.WalletTransaction{},
		&models.Referral{},
		&models.AdminRole{},
		&models.PushSubscription{},
		&models.RefreshToken{},
		&models.Setting{},
	); err != nil {
		return err
	}

	// jti blacklist fallback used when Redis is not configured
	if err := db.Exec("CREATE TABLE IF NOT EXISTS revoked_tokens (id VARCHAR(64) PRIMARY KEY, revoked_at DATETIME)").Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Setting{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&models.Setting{
			AppName:       "TaskEarn",
			MinWithdraw:   5.00,
			MaxWithdraw:   1000.00,
			ReferralBonus: 1.00,
		}).Error; err != nil {
			return err
		}
		log.Println("[database] seeded default settings")
	}

	return bootstrapAdmin(db)
}

func bootstrapAdmin(db *gorm.DB) error {
	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	if email == "" {
		return nil
	}
	var profile models.Profile
	if err := db.Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[database] ADMIN_EMAIL %s has no profile yet; skipping admin bootstrap", email)
			return nil
		}
		return err
	}
	var existing int64
	if err := db.Model(&models.AdminRole{}).Where("user_id = ?", profile.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	if err := db.Create(&models.AdminRole{UserID: profile.ID}).Error; err != nil {
		return err
	}
	log.Printf("[database] bootstrapped admin role for %s", email)
	return nil
}
