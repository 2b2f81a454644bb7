package admins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/models"
	"github.com/erikawesome453-wq/task-dash-earn/notify"

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
		&models.AdminRole{},
		&models.Setting{},
	))
	database.Set(db)
	return db
}

func createProfile(t *testing.T, db *gorm.DB, username string) *models.Profile {
	t.Helper()
	p := &models.Profile{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "x",
		ReferralCode: "C" + username,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createPendingTx(t *testing.T, db *gorm.DB, userID uint, txType string, amount float64) *models.WalletTransaction {
	t.Helper()
	txn := &models.WalletTransaction{
		UserID:  userID,
		Type:    txType,
		Amount:  amount,
		Status:  models.TxPending,
		OrderID: fmt.Sprintf("TDE-%06d-%s-%d", userID, txType, int64(amount*100)),
	}
	require.NoError(t, db.Create(txn).Error)
	return txn
}

// recordingSender captures dispatched events for assertions.
type recordingSender struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *recordingSender) Name() string { return "recorder" }

func (s *recordingSender) Send(_ context.Context, ev notify.Event) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

func (s *recordingSender) all() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Event, len(s.events))
	copy(out, s.events)
	return out
}

func captureNotifications(t *testing.T) (*recordingSender, func()) {
	t.Helper()
	rec := &recordingSender{}
	d := notify.NewDispatcher([]notify.Sender{rec})
	d.Start()
	notify.SetDefault(d)
	return rec, func() {
		d.Close()
		notify.SetDefault(nil)
	}
}

func settleRequest(t *testing.T, txID uint, action string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/transactions/%d/%s", txID, action), nil)
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprintf("%d", txID)})
	rec := httptest.NewRecorder()
	if action == "approve" {
		ApproveTransaction(rec, req)
	} else {
		RejectTransaction(rec, req)
	}
	return rec
}

func TestApproveDeposit_CreditsBalanceAndVIP(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "alice")
	txn := createPendingTx(t, db, user.ID, models.TxDeposit, 50.00)

	rec := settleRequest(t, txn.ID, "approve")
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Equal(t, 50.00, p.WalletBalance)
	require.Equal(t, 50.00, p.TotalDeposited)
	// 50 in lifetime volume crosses the 20 and 50 thresholds
	require.Equal(t, 2, p.VIPLevel)

	var settled models.WalletTransaction
	require.NoError(t, db.First(&settled, txn.ID).Error)
	require.Equal(t, models.TxCompleted, settled.Status)
}

func TestRejectDeposit_LeavesBalanceUntouched(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "bob")
	txn := createPendingTx(t, db, user.ID, models.TxDeposit, 50.00)

	rec := settleRequest(t, txn.ID, "reject")
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Equal(t, 0.0, p.WalletBalance)
	require.Equal(t, 0.0, p.TotalDeposited)
	require.Equal(t, 0, p.VIPLevel)

	var settled models.WalletTransaction
	require.NoError(t, db.First(&settled, txn.ID).Error)
	require.Equal(t, models.TxRejected, settled.Status)
}

func TestApproveWithdrawal_DebitsBalance(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "carol")
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", user.ID).Update("wallet_balance", 30.0).Error)
	txn := createPendingTx(t, db, user.ID, models.TxWithdraw, 20.00)

	rec := settleRequest(t, txn.ID, "approve")
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Equal(t, 10.00, p.WalletBalance)
}

func TestApproveWithdrawal_ClampsBalanceAtZero(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "dave")
	// balance dropped below the requested amount after the request was made
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", user.ID).Update("wallet_balance", 5.0).Error)
	txn := createPendingTx(t, db, user.ID, models.TxWithdraw, 20.00)

	rec := settleRequest(t, txn.ID, "approve")
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Equal(t, 0.0, p.WalletBalance)
}

func TestSettle_SecondAttemptConflicts(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "erin")
	txn := createPendingTx(t, db, user.ID, models.TxDeposit, 10.00)

	require.Equal(t, http.StatusOK, settleRequest(t, txn.ID, "approve").Code)
	require.Equal(t, http.StatusConflict, settleRequest(t, txn.ID, "approve").Code)
	require.Equal(t, http.StatusConflict, settleRequest(t, txn.ID, "reject").Code)

	// credited exactly once
	var p models.Profile
	require.NoError(t, db.First(&p, user.ID).Error)
	require.Equal(t, 10.00, p.WalletBalance)
}

func TestSettle_TaskRewardNotSettleable(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "frank")
	txn := &models.WalletTransaction{
		UserID:  user.ID,
		Type:    models.TxTaskReward,
		Amount:  0.10,
		Status:  models.TxPending,
		OrderID: "TDE-REWARD-1",
	}
	require.NoError(t, db.Create(txn).Error)

	rec := settleRequest(t, txn.ID, "approve")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettle_EmitsNotificationEvents(t *testing.T) {
	db := setupDB(t)
	recorder, done := captureNotifications(t)

	user := createProfile(t, db, "grace")
	dep := createPendingTx(t, db, user.ID, models.TxDeposit, 25.00)
	wd := createPendingTx(t, db, user.ID, models.TxWithdraw, 10.00)

	require.Equal(t, http.StatusOK, settleRequest(t, dep.ID, "approve").Code)
	require.Equal(t, http.StatusOK, settleRequest(t, wd.ID, "reject").Code)
	done()

	events := recorder.all()
	require.Len(t, events, 2)
	require.Equal(t, notify.EventDepositApproved, events[0].Type)
	require.Equal(t, 25.00, events[0].Amount)
	require.Equal(t, user.ID, events[0].UserID)
	require.Equal(t, notify.EventWithdrawalRejected, events[1].Type)
}

func TestSettleBatch_MixedOutcomes(t *testing.T) {
	db := setupDB(t)
	alice := createProfile(t, db, "batch-a")
	bob := createProfile(t, db, "batch-b")

	dep1 := createPendingTx(t, db, alice.ID, models.TxDeposit, 20.00)
	dep2 := createPendingTx(t, db, bob.ID, models.TxDeposit, 30.00)
	require.Equal(t, http.StatusOK, settleRequest(t, dep2.ID, "approve").Code)

	body := fmt.Sprintf(`{"ids": [%d, %d, 9999], "approve": true}`, dep1.ID, dep2.ID)
	req := httptest.NewRequest(http.MethodPost, "/admin/transactions/settle", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	SettleTransactions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Settled int `json:"settled"`
			Results []struct {
				ID     uint   `json:"id"`
				Status string `json:"status"`
			} `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Data.Settled)
	require.Len(t, resp.Data.Results, 3)
	require.Equal(t, "completed", resp.Data.Results[0].Status)
	require.Equal(t, "already_settled", resp.Data.Results[1].Status)
	require.Equal(t, "not_found", resp.Data.Results[2].Status)

	var p models.Profile
	require.NoError(t, db.First(&p, alice.ID).Error)
	require.Equal(t, 20.00, p.WalletBalance)
}
