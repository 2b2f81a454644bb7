package users

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/middleware"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
)

type DepositRequest struct {
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"payment_method" validate:"required"`
	PaymentDetails string  `json:"payment_details"`
}

// POST /users/wallet/deposit creates a pending deposit awaiting admin settlement.
func DepositHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req DepositRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be greater than zero"})
		return
	}

	txn := models.WalletTransaction{
		UserID:         uid,
		Type:           models.TxDeposit,
		Amount:         utils.RoundMoney(req.Amount),
		Status:         models.TxPending,
		OrderID:        utils.GenerateOrderID(uid),
		PaymentMethod:  utils.PtrString(strings.TrimSpace(req.PaymentMethod)),
		PaymentDetails: utils.PtrString(strings.TrimSpace(req.PaymentDetails)),
	}
	if err := database.DB.Create(&txn).Error; err != nil {
		log.Printf("[wallet] create deposit for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Deposit request submitted and awaiting approval",
		Data:    transactionPayload(&txn),
	})
}

type WithdrawRequest struct {
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"payment_method" validate:"required"`
	PaymentDetails string  `json:"payment_details" validate:"required"`
}

// POST /users/wallet/withdraw creates a pending withdrawal. The balance is
// debited when an admin approves it, not here.
func WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req WithdrawRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	setting, err := models.GetSetting(db)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if req.Amount < setting.MinWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: fmt.Sprintf("Minimum withdrawal is $%.2f", setting.MinWithdraw)})
		return
	}
	if req.Amount > setting.MaxWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: fmt.Sprintf("Maximum withdrawal is $%.2f", setting.MaxWithdraw)})
		return
	}

	var profile models.Profile
	if err := db.First(&profile, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}
	if req.Amount > profile.WalletBalance {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient balance"})
		return
	}

	txn := models.WalletTransaction{
		UserID:         uid,
		Type:           models.TxWithdraw,
		Amount:         utils.RoundMoney(req.Amount),
		Status:         models.TxPending,
		OrderID:        utils.GenerateOrderID(uid),
		PaymentMethod:  utils.PtrString(strings.TrimSpace(req.PaymentMethod)),
		PaymentDetails: utils.PtrString(strings.TrimSpace(req.PaymentDetails)),
	}
	if err := db.Create(&txn).Error; err != nil {
		log.Printf("[wallet] create withdrawal for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted and awaiting approval",
		Data:    transactionPayload(&txn),
	})
}

// GET /users/wallet/transactions
func TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	q := db.Model(&models.WalletTransaction{}).Where("user_id = ?", uid)
	if typ := r.URL.Query().Get("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			offset = v
		}
	}

	var total int64
	q.Count(&total)

	var txns []models.WalletTransaction
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(txns))
	for i := range txns {
		resp = append(resp, transactionPayload(&txns[i]))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"transactions": resp,
			"total":        total,
			"limit":        limit,
			"offset":       offset,
		},
	})
}

func transactionPayload(t *models.WalletTransaction) map[string]interface{} {
	return map[string]interface{}{
		"id":              t.ID,
		"order_id":        t.OrderID,
		"type":            t.Type,
		"amount":          t.Amount,
		"status":          t.Status,
		"payment_method":  t.PaymentMethod,
		"payment_details": t.PaymentDetails,
		"description":     t.Description,
		"created_at":      t.CreatedAt,
	}
}
