package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/middleware"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/referral"
	"github.com/erikawesome453-wq/task-dash-earn/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username             string `json:"username" validate:"required,nameok"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	ReferralCode         string `json:"referral_code"`
	IsApp                *bool  `json:"is_app,omitempty"` // Optional: if true, token expires in 30 days
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	setting, err := models.GetSetting(db)
	if err != nil {
		log.Printf("[register] load settings: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if setting.ClosedRegister {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
			Success: false,
			Message: "Registration is currently closed. Please try again later.",
			Data:    map[string]interface{}{"closed_register": true, "application": setting.AppName},
		})
		return
	}
	if setting.Maintenance {
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{
			Success: false,
			Message: "The application is under maintenance. Please try again later.",
			Data:    map[string]interface{}{"maintenance": true, "application": setting.AppName},
		})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))

	// Ensure unique email
	var existing models.Profile
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking email: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	code, err := utils.GenerateUniqueReferralCode(db, 8)
	if err != nil {
		log.Printf("[register] generate referral code: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	profile := models.Profile{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     string(hashed),
		ReferralCode: code,
	}
	if err := db.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
			return
		}
		log.Printf("[register] DB create profile: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Registration failed, please try again"})
		return
	}

	// Referral attribution never blocks signup; an invalid code is simply ignored.
	if req.ReferralCode != "" {
		if err := referral.Attribute(db, req.ReferralCode, profile.ID, setting.ReferralBonus); err != nil {
			log.Printf("[register] referral attribution for user %d (code %s): %v", profile.ID, req.ReferralCode, err)
		}
	}

	accessToken, exp, err := issueAccessToken(profile.ID, "user", req.IsApp)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create token"})
		return
	}
	refreshID, err := utils.GenerateRefreshToken(profile.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful, welcome!",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": exp.UTC().Format(time.RFC3339),
			"refresh_token": refreshID,
			"user":          profilePayload(&profile),
			"application": map[string]interface{}{
				"name":           setting.AppName,
				"min_withdraw":   setting.MinWithdraw,
				"max_withdraw":   setting.MaxWithdraw,
				"referral_bonus": setting.ReferralBonus,
			},
		},
	})
}

// issueAccessToken picks the expiry window based on the is_app flag and signs a token.
func issueAccessToken(userID uint, role string, isApp *bool) (string, time.Time, error) {
	tokenExpiry := 15 * time.Minute
	if isApp != nil && *isApp {
		tokenExpiry = 30 * 24 * time.Hour
	}
	exp := time.Now().Add(tokenExpiry)
	token, err := utils.GenerateAccessTokenWithExpiry(userID, role, tokenExpiry)
	return token, exp, err
}

func profilePayload(p *models.Profile) map[string]interface{} {
	return map[string]interface{}{
		"id":                p.ID,
		"username":          p.Username,
		"email":             p.Email,
		"phone":             p.Phone,
		"payment_method":    p.PaymentMethod,
		"wallet_balance":    p.WalletBalance,
		"total_deposited":   p.TotalDeposited,
		"total_earned":      p.TotalEarned,
		"referral_earnings": p.ReferralEarnings,
		"total_referrals":   p.TotalReferrals,
		"vip_level":         p.VIPLevel,
		"referral_code":     p.ReferralCode,
	}
}
