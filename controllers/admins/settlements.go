package admins

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/notify"
	"github.com/erikawesome453-wq/task-dash-earn/utils"
	"github.com/erikawesome453-wq/task-dash-earn/vip"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

var (
	errTxNotFound     = errors.New("transaction not found")
	errAlreadySettled = errors.New("transaction already settled")
	errNotSettleable  = errors.New("transaction type cannot be settled")
)

type TransactionResponse struct {
	ID             uint    `json:"id"`
	UserID         uint    `json:"user_id"`
	UserName       string  `json:"user_name"`
	Email          string  `json:"email"`
	Type           string  `json:"type"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	OrderID        string  `json:"order_id"`
	PaymentMethod  *string `json:"payment_method"`
	PaymentDetails *string `json:"payment_details"`
	CreatedAt      string  `json:"created_at"`
}

// GET /admin/transactions
func GetTransactions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")
	txType := r.URL.Query().Get("type")
	userID := r.URL.Query().Get("user_id")
	orderID := r.URL.Query().Get("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.WalletTransaction{}).
		Joins("JOIN profiles ON wallet_transactions.user_id = profiles.id")

	if status != "" {
		query = query.Where("wallet_transactions.status = ?", status)
	}
	if txType != "" {
		query = query.Where("wallet_transactions.type = ?", txType)
	}
	if userID != "" {
		query = query.Where("wallet_transactions.user_id = ?", userID)
	}
	if orderID != "" {
		query = query.Where("wallet_transactions.order_id LIKE ?", "%"+orderID+"%")
	}

	var total int64
	query.Count(&total)

	type txWithUser struct {
		models.WalletTransaction
		UserName string
		Email    string
	}
	var rows []txWithUser
	query.Select("wallet_transactions.*, profiles.username as user_name, profiles.email as email").
		Offset(offset).
		Limit(limit).
		Order("wallet_transactions.created_at DESC").
		Find(&rows)

	response := make([]TransactionResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, TransactionResponse{
			ID:             row.WalletTransaction.ID,
			UserID:         row.UserID,
			UserName:       row.UserName,
			Email:          row.Email,
			Type:           row.Type,
			Amount:         row.Amount,
			Status:         row.Status,
			OrderID:        row.OrderID,
			PaymentMethod:  row.PaymentMethod,
			PaymentDetails: row.PaymentDetails,
			CreatedAt:      row.WalletTransaction.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"transactions": response,
			"total":        total,
			"page":         page,
			"limit":        limit,
		},
	})
}

// settleOne moves a pending deposit or withdrawal to its terminal status and
// applies the balance effect. The pending-only status transition inside the
// transaction is what makes double settlement a no-op.
func settleOne(db *gorm.DB, txID uint, approve bool) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	if err := db.First(&txn, txID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTxNotFound
		}
		return nil, err
	}
	if !txn.Settleable() {
		return nil, errNotSettleable
	}

	newStatus := models.TxRejected
	if approve {
		newStatus = models.TxCompleted
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WalletTransaction{}).
			Where("id = ? AND status = ?", txn.ID, models.TxPending).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadySettled
		}
		if !approve {
			// rejection never touches the balance
			return nil
		}

		switch txn.Type {
		case models.TxDeposit:
			if err := tx.Model(&models.Profile{}).Where("id = ?", txn.UserID).Updates(map[string]interface{}{
				"wallet_balance":  gorm.Expr("wallet_balance + ?", txn.Amount),
				"total_deposited": gorm.Expr("total_deposited + ?", txn.Amount),
			}).Error; err != nil {
				return err
			}
			// recompute the VIP level from the post-credit volume
			var p models.Profile
			if err := tx.First(&p, txn.UserID).Error; err != nil {
				return err
			}
			level := vip.Level(p.TotalDeposited, p.TotalEarned)
			if level != p.VIPLevel {
				if err := tx.Model(&models.Profile{}).Where("id = ?", p.ID).Update("vip_level", level).Error; err != nil {
					return err
				}
			}
			return nil

		case models.TxWithdraw:
			// clamp-at-zero debit; retried as a compare-and-swap so a
			// concurrent credit cannot be lost
			for attempt := 0; attempt < 5; attempt++ {
				var p models.Profile
				if err := tx.First(&p, txn.UserID).Error; err != nil {
					return err
				}
				newBalance := utils.ClampNonNegative(utils.RoundMoney(p.WalletBalance - txn.Amount))
				res := tx.Model(&models.Profile{}).
					Where("id = ? AND wallet_balance = ?", p.ID, p.WalletBalance).
					Update("wallet_balance", newBalance)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 1 {
					return nil
				}
			}
			return errors.New("balance update contention")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	txn.Status = newStatus
	return &txn, nil
}

// notifySettled emits the settlement outcome to the notification dispatcher.
// Runs after commit so a user is never notified about a rolled-back change.
func notifySettled(txn *models.WalletTransaction, approve bool) {
	var evType string
	switch {
	case txn.Type == models.TxDeposit && approve:
		evType = notify.EventDepositApproved
	case txn.Type == models.TxDeposit:
		evType = notify.EventDepositRejected
	case txn.Type == models.TxWithdraw && approve:
		evType = notify.EventWithdrawalApproved
	default:
		evType = notify.EventWithdrawalRejected
	}
	notify.Dispatch(notify.Event{UserID: txn.UserID, Type: evType, Amount: txn.Amount})
}

func settleHandler(w http.ResponseWriter, r *http.Request, approve bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid transaction id"})
		return
	}

	txn, err := settleOne(database.DB, uint(id), approve)
	if err != nil {
		switch {
		case errors.Is(err, errTxNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Transaction not found"})
		case errors.Is(err, errAlreadySettled):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Transaction already settled"})
		case errors.Is(err, errNotSettleable):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Only deposits and withdrawals can be settled"})
		default:
			log.Printf("[settlement] settle tx %d: %v", id, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	notifySettled(txn, approve)

	action := "rejected"
	if approve {
		action = "approved"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Transaction " + action,
		Data: map[string]interface{}{
			"id":       txn.ID,
			"order_id": txn.OrderID,
			"type":     txn.Type,
			"amount":   txn.Amount,
			"status":   txn.Status,
		},
	})
}

// POST /admin/transactions/{id}/approve
func ApproveTransaction(w http.ResponseWriter, r *http.Request) {
	settleHandler(w, r, true)
}

// POST /admin/transactions/{id}/reject
func RejectTransaction(w http.ResponseWriter, r *http.Request) {
	settleHandler(w, r, false)
}

type SettleBatchRequest struct {
	IDs     []uint `json:"ids"`
	Approve bool   `json:"approve"`
}

type SettleBatchResult struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// POST /admin/transactions/settle settles a batch one by one; a failure on one
// transaction does not stop the rest.
func SettleTransactions(w http.ResponseWriter, r *http.Request) {
	var req SettleBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if len(req.IDs) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ids is required"})
		return
	}
	if len(req.IDs) > 100 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Too many ids in one batch"})
		return
	}

	results := make([]SettleBatchResult, 0, len(req.IDs))
	settled := 0
	for _, id := range req.IDs {
		txn, err := settleOne(database.DB, id, req.Approve)
		if err != nil {
			status := "error"
			switch {
			case errors.Is(err, errTxNotFound):
				status = "not_found"
			case errors.Is(err, errAlreadySettled):
				status = "already_settled"
			case errors.Is(err, errNotSettleable):
				status = "not_settleable"
			default:
				log.Printf("[settlement] batch settle tx %d: %v", id, err)
			}
			results = append(results, SettleBatchResult{ID: id, Status: status, Error: err.Error()})
			continue
		}
		notifySettled(txn, req.Approve)
		results = append(results, SettleBatchResult{ID: id, Status: txn.Status})
		settled++
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Batch processed",
		Data: map[string]interface{}{
			"settled": settled,
			"results": results,
		},
	})
}
