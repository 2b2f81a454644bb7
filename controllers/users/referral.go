package users

import (
	"net/http"
	"os"
	"strings"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
)

// GET /users/referrals
func ReferralStatsHandler(w http.ResponseWriter, r *http.Request) {
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

	var referrals []models.Referral
	if err := db.Where("referrer_id = ?", uid).Order("created_at DESC").Find(&referrals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// resolve referred usernames in one query
	ids := make([]uint, 0, len(referrals))
	for _, ref := range referrals {
		ids = append(ids, ref.ReferredID)
	}
	names := map[uint]string{}
	if len(ids) > 0 {
		var referred []models.Profile
		db.Select("id, username").Where("id IN ?", ids).Find(&referred)
		for _, p := range referred {
			names[p.ID] = p.Username
		}
	}

	list := make([]map[string]interface{}, 0, len(referrals))
	for _, ref := range referrals {
		list = append(list, map[string]interface{}{
			"username":  names[ref.ReferredID],
			"bonus":     ref.BonusAmount,
			"joined_at": ref.CreatedAt,
		})
	}

	setting, _ := models.GetSetting(db)
	bonus := 0.0
	if setting != nil {
		bonus = setting.ReferralBonus
	}

	shareURL := ""
	if base := strings.TrimRight(os.Getenv("APP_URL"), "/"); base != "" {
		shareURL = base + "/register?ref=" + profile.ReferralCode
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"referral_code":     profile.ReferralCode,
			"share_url":         shareURL,
			"total_referrals":   profile.TotalReferrals,
			"referral_earnings": profile.ReferralEarnings,
			"bonus_per_signup":  bonus,
			"referrals":         list,
		},
	})
}
