package admins

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"

	"github.com/gorilla/mux"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// GET /admin/tasks
func GetTasks(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	query := db.Model(&models.Task{})
	if active := r.URL.Query().Get("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var tasks []models.Task
	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: tasks})
}

type TaskRequest struct {
	Title        string  `json:"title" validate:"required"`
	URL          string  `json:"url" validate:"required"`
	RewardAmount float64 `json:"reward_amount"`
	RewardType   string  `json:"reward_type"`
	Category     string  `json:"category"`
	Platform     string  `json:"platform"`
	Description  string  `json:"description"`
	IsActive     *bool   `json:"is_active"`
}

func (req *TaskRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	req.URL = strings.TrimSpace(req.URL)
	if req.Title == "" {
		return "title is required"
	}
	if req.URL == "" {
		return "url is required"
	}
	if req.RewardType == "" {
		req.RewardType = models.RewardStatic
	}
	if req.RewardType != models.RewardStatic && req.RewardType != models.RewardDynamic {
		return "reward_type must be static or dynamic"
	}
	if req.RewardType == models.RewardStatic && req.RewardAmount <= 0 {
		return "reward_amount must be greater than zero for static rewards"
	}
	return ""
}

// POST /admin/tasks
func CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	task := models.Task{
		Title:        req.Title,
		URL:          req.URL,
		RewardAmount: utils.RoundMoney(req.RewardAmount),
		RewardType:   req.RewardType,
		Category:     strings.TrimSpace(req.Category),
		Platform:     strings.TrimSpace(req.Platform),
		IsActive:     true,
	}
	if req.Description != "" {
		task.Description = utils.PtrString(req.Description)
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&task).Error; err != nil {
		log.Printf("[admin-tasks] create task: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task created", Data: task})
}

// PUT /admin/tasks/{id}
func UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	db := database.DB
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		return
	}

	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	task.Title = req.Title
	task.URL = req.URL
	task.RewardAmount = utils.RoundMoney(req.RewardAmount)
	task.RewardType = req.RewardType
	task.Category = strings.TrimSpace(req.Category)
	task.Platform = strings.TrimSpace(req.Platform)
	if req.Description != "" {
		task.Description = utils.PtrString(req.Description)
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := db.Save(&task).Error; err != nil {
		log.Printf("[admin-tasks] update task %d: %v", id, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// POST /admin/tasks/{id}/toggle flips a task between active and inactive.
func ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	db := database.DB
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		return
	}

	task.IsActive = !task.IsActive
	if err := db.Model(&models.Task{}).Where("id = ?", task.ID).Update("is_active", task.IsActive).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// DELETE /admin/tasks/{id}. Tasks with recorded completions are deactivated
// instead of deleted so the ledger keeps pointing at a real row.
func DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	db := database.DB
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		return
	}

	var completions int64
	db.Model(&models.TaskCompletion{}).Where("task_id = ?", task.ID).Count(&completions)
	if completions > 0 {
		if err := db.Model(&models.Task{}).Where("id = ?", task.ID).Update("is_active", false).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task has completions and was deactivated instead"})
		return
	}

	if err := db.Delete(&task).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task deleted"})
}

// POST /admin/tasks/{id}/image uploads a task image (multipart field "image")
// to object storage and stores the public URL on the task.
func UploadTaskImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	db := database.DB
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "image file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported image type"})
		return
	}

	objectName := fmt.Sprintf("tasks/%d_%d%s", task.ID, time.Now().Unix(), ext)
	url, err := utils.UploadTaskImage(objectName, file)
	if err != nil {
		log.Printf("[admin-tasks] upload image for task %d: %v", task.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
		return
	}

	if err := db.Model(&models.Task{}).Where("id = ?", task.ID).Update("image_url", url).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Image uploaded", Data: map[string]interface{}{"image_url": url}})
}
