package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
	"github.com/erikawesome453-wq/task-dash-earn/vip"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.WalletTransaction{},
		&models.Referral{},
		&models.Setting{},
		&models.PushSubscription{},
	))
	database.Set(db)
	return db
}

func createProfile(t *testing.T, db *gorm.DB, username string, vipLevel int) *models.Profile {
	t.Helper()
	p := &models.Profile{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "x",
		ReferralCode: "C" + username,
		VIPLevel:     vipLevel,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createTask(t *testing.T, db *gorm.DB, title string, reward float64, rewardType string) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:        title,
		URL:          "https://example.com/" + title,
		RewardAmount: reward,
		RewardType:   rewardType,
		IsActive:     true,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func authedRequest(method, target string, userID uint) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), utils.UserIDKey, userID)
	return req.WithContext(ctx)
}

func completeTask(userID, taskID uint) *httptest.ResponseRecorder {
	req := authedRequest(http.MethodPost, fmt.Sprintf("/users/tasks/%d/complete", taskID), userID)
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprintf("%d", taskID)})
	rec := httptest.NewRecorder()
	TaskCompleteHandler(rec, req)
	return rec
}

func TestTaskComplete_CreditsRewardAndLedger(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "worker", 0)
	task := createTask(t, db, "follow", 0.10, models.RewardStatic)

	rec := completeTask(user.ID, task.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Equal(t, 0.10, p.WalletBalance)
	require.Equal(t, 0.10, p.TotalEarned)
	require.NotNil(t, p.LastTaskDate)
	require.Equal(t, time.Now().Format("2006-01-02"), *p.LastTaskDate)

	var txn models.WalletTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.TxTaskReward).First(&txn).Error)
	require.Equal(t, 0.10, txn.Amount)
	require.Equal(t, models.TxCompleted, txn.Status)

	var completion models.TaskCompletion
	require.NoError(t, db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).First(&completion).Error)
	require.Equal(t, 0.10, completion.RewardEarned)
}

func TestTaskComplete_SameTaskSameDayRejected(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "repeat", 0)
	task := createTask(t, db, "like", 0.05, models.RewardStatic)

	require.Equal(t, http.StatusOK, completeTask(user.ID, task.ID).Code)
	require.Equal(t, http.StatusConflict, completeTask(user.ID, task.ID).Code)

	var count int64
	db.Model(&models.TaskCompletion{}).Where("user_id = ?", user.ID).Count(&count)
	require.Equal(t, int64(1), count)

	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Equal(t, 0.05, p.WalletBalance)
}

func TestTaskComplete_DailyLimitEnforced(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "capped", 0)

	limit := vip.DailyTaskLimit(0)
	for i := 0; i < limit; i++ {
		task := createTask(t, db, fmt.Sprintf("task%d", i), 0.05, models.RewardStatic)
		require.Equal(t, http.StatusOK, completeTask(user.ID, task.ID).Code)
	}

	extra := createTask(t, db, "overflow", 0.05, models.RewardStatic)
	rec := completeTask(user.ID, extra.ID)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var count int64
	db.Model(&models.TaskCompletion{}).Where("user_id = ?", user.ID).Count(&count)
	require.Equal(t, int64(limit), count)
}

func TestTaskComplete_DynamicRewardWithinTierRange(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "dyn", 2)
	task := createTask(t, db, "survey", 0, models.RewardDynamic)

	rec := completeTask(user.ID, task.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Reward float64 `json:"reward"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rr := vip.RewardRange(2)
	require.GreaterOrEqual(t, resp.Data.Reward, rr.Min)
	require.LessOrEqual(t, resp.Data.Reward, rr.Max)
}

func TestTaskComplete_InactiveTaskRejected(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "late", 0)
	task := createTask(t, db, "expired", 0.10, models.RewardStatic)
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", task.ID).Update("is_active", false).Error)

	rec := completeTask(user.ID, task.ID)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskList_ReportsRemainingQuota(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "lister", 0)
	createTask(t, db, "one", 0.10, models.RewardStatic)
	task2 := createTask(t, db, "two", 0.20, models.RewardStatic)
	require.Equal(t, http.StatusOK, completeTask(user.ID, task2.ID).Code)

	req := authedRequest(http.MethodGet, "/users/tasks", user.ID)
	rec := httptest.NewRecorder()
	TaskListHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Tasks []struct {
				Title          string `json:"title"`
				CompletedToday bool   `json:"completed_today"`
			} `json:"tasks"`
			DailyLimit     int `json:"daily_limit"`
			CompletedToday int `json:"completed_today"`
			RemainingToday int `json:"remaining_today"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, vip.DailyTaskLimit(0), resp.Data.DailyLimit)
	require.Equal(t, 1, resp.Data.CompletedToday)
	require.Equal(t, vip.DailyTaskLimit(0)-1, resp.Data.RemainingToday)
	require.Len(t, resp.Data.Tasks, 2)
	for _, task := range resp.Data.Tasks {
		require.Equal(t, task.Title == "two", task.CompletedToday)
	}
}
