package users

import (
	"net/http"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
	"github.com/erikawesome453-wq/task-dash-earn/vip"
)

// GET /users/vip
func VIPStatusHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var profile models.Profile
	if err := database.DB.First(&profile, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	lifetime := profile.TotalDeposited + profile.TotalEarned

	tiers := make([]map[string]interface{}, 0, vip.MaxLevel()+1)
	for lvl := 0; lvl <= vip.MaxLevel(); lvl++ {
		rr := vip.RewardRange(lvl)
		tiers = append(tiers, map[string]interface{}{
			"level":       lvl,
			"threshold":   vip.Threshold(lvl),
			"daily_limit": vip.DailyTaskLimit(lvl),
			"reward_min":  rr.Min,
			"reward_max":  rr.Max,
			"unlocked":    lvl <= profile.VIPLevel,
		})
	}

	data := map[string]interface{}{
		"vip_level":       profile.VIPLevel,
		"lifetime_volume": utils.RoundMoney(lifetime),
		"daily_limit":     vip.DailyTaskLimit(profile.VIPLevel),
		"tiers":           tiers,
	}
	if next, ok := vip.NextThreshold(profile.VIPLevel); ok {
		progress := 0.0
		cur := vip.Threshold(profile.VIPLevel)
		if next > cur {
			progress = (lifetime - cur) / (next - cur) * 100
		}
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		data["next_threshold"] = next
		data["amount_to_next"] = utils.RoundMoney(next - lifetime)
		data["progress_percent"] = utils.RoundMoney(progress)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}
