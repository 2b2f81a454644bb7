package admins

import (
	"log"
	"net/http"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
)

// GET /admin/settings
func GetSettings(w http.ResponseWriter, r *http.Request) {
	setting, err := models.GetSetting(database.DB)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: setting})
}

type UpdateSettingsRequest struct {
	AppName        *string  `json:"app_name"`
	MinWithdraw    *float64 `json:"min_withdraw"`
	MaxWithdraw    *float64 `json:"max_withdraw"`
	ReferralBonus  *float64 `json:"referral_bonus"`
	ClosedRegister *bool    `json:"closed_register"`
	Maintenance    *bool    `json:"maintenance"`
}

// PUT /admin/settings
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	db := database.DB
	setting, err := models.GetSetting(db)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if req.AppName != nil {
		setting.AppName = *req.AppName
	}
	if req.MinWithdraw != nil {
		if *req.MinWithdraw <= 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "min_withdraw must be positive"})
			return
		}
		setting.MinWithdraw = *req.MinWithdraw
	}
	if req.MaxWithdraw != nil {
		setting.MaxWithdraw = *req.MaxWithdraw
	}
	if req.ReferralBonus != nil {
		if *req.ReferralBonus < 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "referral_bonus cannot be negative"})
			return
		}
		setting.ReferralBonus = *req.ReferralBonus
	}
	if req.ClosedRegister != nil {
		setting.ClosedRegister = *req.ClosedRegister
	}
	if req.Maintenance != nil {
		setting.Maintenance = *req.Maintenance
	}
	if setting.MaxWithdraw < setting.MinWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "max_withdraw cannot be below min_withdraw"})
		return
	}

	if err := db.Save(setting).Error; err != nil {
		log.Printf("[admin-settings] save settings: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings updated", Data: setting})
}
