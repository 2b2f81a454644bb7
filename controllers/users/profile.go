package users

import (
	"log"
	"net/http"
	"strings"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/middleware"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
	"github.com/erikawesome453-wq/task-dash-earn/vip"

	"golang.org/x/crypto/bcrypt"
)

// GET /users/profile
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var profile models.Profile
	if err := db.First(&profile, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	var doneToday int64
	db.Model(&models.TaskCompletion{}).Where("user_id = ? AND task_date = ?", uid, today()).Count(&doneToday)

	limit := vip.DailyTaskLimit(profile.VIPLevel)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user":                  profilePayload(&profile),
			"daily_limit":           limit,
			"tasks_completed_today": doneToday,
		},
	})
}

type UpdateProfileRequest struct {
	Username      string `json:"username"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
}

// PUT /users/profile
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	updates := map[string]interface{}{}
	if v := strings.TrimSpace(req.Username); v != "" {
		updates["username"] = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		updates["phone"] = v
	}
	if v := strings.TrimSpace(req.PaymentMethod); v != "" {
		updates["payment_method"] = v
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	db := database.DB
	if err := db.Model(&models.Profile{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		log.Printf("[profile] update user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var profile models.Profile
	if err := db.First(&profile, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Profile updated", Data: profilePayload(&profile)})
}

type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	NewPassword          string `json:"new_password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=NewPassword"`
}

// PUT /users/profile/password
func ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req ChangePasswordRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var profile models.Profile
	if err := db.First(&profile, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.CurrentPassword)); err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Current password is incorrect"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := db.Model(&models.Profile{}).Where("id = ?", uid).Update("password", string(hashed)).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// changing the password ends every other session
	_ = db.Model(&models.RefreshToken{}).Where("user_id = ?", uid).Update("revoked", true).Error

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Password changed"})
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
