package admins

import (
	"net/http"
	"strings"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
)

type DailyGrowth struct {
	Day   string `json:"day"`
	Count *int64 `json:"count"`
}

type RecentTransaction struct {
	UserName  string    `json:"user_name"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalUsers          int64               `json:"total_users"`
	ActiveToday         int64               `json:"active_today"`
	GrowthUsers         []DailyGrowth       `json:"growth_users"`
	PendingDeposits     int64               `json:"pending_deposits"`
	PendingWithdrawals  int64               `json:"pending_withdrawals"`
	TotalDeposited      float64             `json:"total_deposited"`
	TotalWithdrawn      float64             `json:"total_withdrawn"`
	TotalRewardsPaid    float64             `json:"total_rewards_paid"`
	TasksCompletedToday int64               `json:"tasks_completed_today"`
	ActiveTasks         int64               `json:"active_tasks"`
	LastTransactions    []RecentTransaction `json:"last_transactions"`
}

// GET /admin/dashboard
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	db := database.DB

	stats.GrowthUsers = make([]DailyGrowth, 0)
	stats.LastTransactions = make([]RecentTransaction, 0)

	today := time.Now().Format("2006-01-02")

	db.Model(&models.Profile{}).Count(&stats.TotalUsers)
	db.Model(&models.Profile{}).Where("last_task_date = ?", today).Count(&stats.ActiveToday)

	db.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ?", models.TxDeposit, models.TxPending).
		Count(&stats.PendingDeposits)
	db.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ?", models.TxWithdraw, models.TxPending).
		Count(&stats.PendingWithdrawals)

	db.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ?", models.TxDeposit, models.TxCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&stats.TotalDeposited)
	db.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ?", models.TxWithdraw, models.TxCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&stats.TotalWithdrawn)
	db.Model(&models.WalletTransaction{}).
		Where("type IN ? AND status = ?", []string{models.TxTaskReward, models.TxReferralBonus}, models.TxCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&stats.TotalRewardsPaid)

	db.Model(&models.TaskCompletion{}).Where("task_date = ?", today).Count(&stats.TasksCompletedToday)
	db.Model(&models.Task{}).Where("is_active = ?", true).Count(&stats.ActiveTasks)

	// signups per day over the last week
	growthMap := map[string]int64{}
	rows, err := db.Model(&models.Profile{}).
		Select("DATE_FORMAT(created_at, '%W') as day, COUNT(*) as count").
		Where("created_at >= NOW() - INTERVAL 7 DAY").
		Group("DATE_FORMAT(created_at, '%W')").
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var day string
			var count int64
			if scanErr := rows.Scan(&day, &count); scanErr == nil {
				growthMap[strings.TrimSpace(day)] = count
			}
		}
	}
	for i := 6; i >= 0; i-- {
		d := time.Now().AddDate(0, 0, -i)
		dayName := d.Format("Monday")
		if val, ok := growthMap[dayName]; ok {
			v := val
			stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: dayName, Count: &v})
		} else {
			stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: dayName, Count: nil})
		}
	}

	type txRow struct {
		UserName  string
		Type      string
		Amount    float64
		Status    string
		CreatedAt time.Time
	}
	var recent []txRow
	db.Model(&models.WalletTransaction{}).
		Joins("JOIN profiles ON wallet_transactions.user_id = profiles.id").
		Select("profiles.username as user_name, wallet_transactions.type, wallet_transactions.amount, wallet_transactions.status, wallet_transactions.created_at").
		Order("wallet_transactions.created_at DESC").
		Limit(10).
		Find(&recent)
	for _, row := range recent {
		stats.LastTransactions = append(stats.LastTransactions, RecentTransaction{
			UserName:  row.UserName,
			Type:      row.Type,
			Amount:    row.Amount,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: stats})
}
