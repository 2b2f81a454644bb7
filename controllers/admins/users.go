package admins

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// GET /admin/users
func GetUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.Profile{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR referral_code LIKE ?", like, like, like)
	}
	if level := r.URL.Query().Get("vip_level"); level != "" {
		query = query.Where("vip_level = ?", level)
	}

	var total int64
	query.Count(&total)

	var profiles []models.Profile
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&profiles).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"users": profiles,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GET /admin/users/{id}
func GetUserDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	db := database.DB
	var profile models.Profile
	if err := db.First(&profile, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	isAdmin, _ := models.IsAdmin(db, profile.ID)

	var txCount, completionCount int64
	db.Model(&models.WalletTransaction{}).Where("user_id = ?", profile.ID).Count(&txCount)
	db.Model(&models.TaskCompletion{}).Where("user_id = ?", profile.ID).Count(&completionCount)

	var recent []models.WalletTransaction
	db.Where("user_id = ?", profile.ID).Order("created_at DESC").Limit(10).Find(&recent)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user":                profile,
			"is_admin":            isAdmin,
			"transaction_count":   txCount,
			"tasks_completed":     completionCount,
			"recent_transactions": recent,
		},
	})
}

// POST /admin/users/{id}/promote grants the admin role.
func PromoteUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := utils.GetUserID(r)

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	db := database.DB
	var profile models.Profile
	if err := db.First(&profile, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	role := models.AdminRole{UserID: profile.ID}
	if actorID != 0 {
		role.GrantedBy = &actorID
	}
	if err := db.Create(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "User is already an admin"})
			return
		}
		log.Printf("[admin-users] promote user %d: %v", id, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User promoted to admin"})
}

// POST /admin/users/{id}/demote revokes the admin role. The last remaining
// admin cannot be demoted.
func DemoteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	db := database.DB

	var role models.AdminRole
	if err := db.Where("user_id = ?", id).First(&role).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User is not an admin"})
		return
	}

	var adminCount int64
	db.Model(&models.AdminRole{}).Count(&adminCount)
	if adminCount <= 1 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Cannot demote the last admin"})
		return
	}

	if err := db.Delete(&role).Error; err != nil {
		log.Printf("[admin-users] demote user %d: %v", id, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Admin role revoked"})
}
