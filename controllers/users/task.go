package users

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
	"github.com/erikawesome453-wq/task-dash-earn/vip"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func today() string {
	return time.Now().Format("2006-01-02")
}

// GET /users/tasks
func TaskListHandler(w http.ResponseWriter, r *http.Request) {
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

	var tasks []models.Task
	if err := db.Where("is_active = ?", true).Order("id ASC").Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// tasks already completed today
	var completions []models.TaskCompletion
	db.Where("user_id = ? AND task_date = ?", uid, today()).Find(&completions)
	doneToday := map[uint]bool{}
	for _, c := range completions {
		doneToday[c.TaskID] = true
	}

	limit := vip.DailyTaskLimit(profile.VIPLevel)
	remaining := limit - len(completions)
	if remaining < 0 {
		remaining = 0
	}

	resp := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		reward := t.RewardAmount
		if t.RewardType == models.RewardDynamic {
			rr := vip.RewardRange(profile.VIPLevel)
			reward = rr.Min
		}
		resp = append(resp, map[string]interface{}{
			"id":              t.ID,
			"title":           t.Title,
			"url":             t.URL,
			"category":        t.Category,
			"platform":        t.Platform,
			"image_url":       t.ImageURL,
			"description":     t.Description,
			"reward_type":     t.RewardType,
			"reward":          reward,
			"completed_today": doneToday[t.ID],
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"tasks":           resp,
			"daily_limit":     limit,
			"completed_today": len(completions),
			"remaining_today": remaining,
		},
	})
}

// POST /users/tasks/{id}/complete
func TaskCompleteHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	taskID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || taskID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	db := database.DB

	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		return
	}
	if !task.IsActive {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Task is no longer available"})
		return
	}

	var profile models.Profile
	if err := db.First(&profile, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	taskDate := today()

	// The daily cap is checked before the per-task dedup so a capped user gets
	// the limit message even for a task they already finished.
	var doneToday int64
	if err := db.Model(&models.TaskCompletion{}).Where("user_id = ? AND task_date = ?", uid, taskDate).Count(&doneToday).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	limit := vip.DailyTaskLimit(profile.VIPLevel)
	if doneToday >= int64(limit) {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Daily task limit reached. Upgrade your VIP level to complete more tasks.",
			Data:    map[string]interface{}{"daily_limit": limit},
		})
		return
	}

	var existing models.TaskCompletion
	if err := db.Where("user_id = ? AND task_id = ? AND task_date = ?", uid, task.ID, taskDate).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Task already completed today"})
		return
	}

	reward := task.RewardAmount
	if task.RewardType == models.RewardDynamic {
		reward = vip.TaskReward(profile.VIPLevel)
	}
	reward = utils.RoundMoney(reward)

	newTotalEarned := profile.TotalEarned + reward
	newLevel := vip.Level(profile.TotalDeposited, newTotalEarned)

	err = db.Transaction(func(tx *gorm.DB) error {
		completion := models.TaskCompletion{
			UserID:       uid,
			TaskID:       task.ID,
			TaskDate:     taskDate,
			RewardEarned: reward,
			CompletedAt:  time.Now(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.WalletTransaction{
			UserID:      uid,
			Type:        models.TxTaskReward,
			Amount:      reward,
			Status:      models.TxCompleted,
			OrderID:     utils.GenerateOrderID(uid),
			Description: utils.PtrString("Task reward: " + task.Title),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).Where("id = ?", uid).Updates(map[string]interface{}{
			"wallet_balance": gorm.Expr("wallet_balance + ?", reward),
			"total_earned":   gorm.Expr("total_earned + ?", reward),
			"vip_level":      newLevel,
			"last_task_date": taskDate,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Task already completed today"})
			return
		}
		log.Printf("[task] complete task %d for user %d: %v", task.ID, uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Task completed",
		Data: map[string]interface{}{
			"reward":          reward,
			"remaining_today": limit - int(doneToday) - 1,
			"vip_level":       newLevel,
		},
	})
}
