package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erikawesome453-wq/task-dash-earn/database"
	"github.com/erikawesome453-wq/task-dash-earn/middleware"
	"github.com/erikawesome453-wq/task-dash-earn/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Referral{},
		&models.WalletTransaction{},
		&models.RefreshToken{},
		&models.AdminRole{},
		&models.Setting{},
	))
	database.Set(db)
	return db
}

func jsonRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func registerBody(username, email, password, referralCode string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"username":              username,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
		"referral_code":         referralCode,
	})
	return string(b)
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID           uint    `json:"id"`
			Email        string  `json:"email"`
			ReferralCode string  `json:"referral_code"`
			Balance      float64 `json:"wallet_balance"`
		} `json:"user"`
	} `json:"data"`
}

func TestRegister_CreatesProfileWithTokenPair(t *testing.T) {
	db := setupDB(t)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest("/auth/register", registerBody("newbie", "newbie@example.com", "secret1", "")))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Data.AccessToken)
	require.True(t, strings.HasPrefix(resp.Data.RefreshToken, "rt_"))
	require.NotEmpty(t, resp.Data.User.ReferralCode)

	var p models.Profile
	require.NoError(t, db.Where("email = ?", "newbie@example.com").First(&p).Error)
	require.Equal(t, 0.0, p.WalletBalance)
	require.Equal(t, 0, p.VIPLevel)
	require.NotEqual(t, "secret1", p.Password)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	setupDB(t)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest("/auth/register", registerBody("first", "dup@example.com", "secret1", "")))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest("/auth/register", registerBody("second", "dup@example.com", "secret1", "")))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_AttributesReferral(t *testing.T) {
	db := setupDB(t)
	referrer := &models.Profile{Username: "ref", Email: "ref@example.com", Password: "x", ReferralCode: "FRIEND01"}
	require.NoError(t, db.Create(referrer).Error)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest("/auth/register", registerBody("invited", "invited@example.com", "secret1", "friend01")))
	require.Equal(t, http.StatusCreated, rec.Code)

	var r models.Profile
	require.NoError(t, db.First(&r, referrer.ID).Error)
	require.Equal(t, uint(1), r.TotalReferrals)
	require.Equal(t, 1.00, r.WalletBalance)
	require.Equal(t, 1.00, r.ReferralEarnings)

	var invited models.Profile
	require.NoError(t, db.Where("email = ?", "invited@example.com").First(&invited).Error)
	require.NotNil(t, invited.ReferredByCode)
	require.Equal(t, "FRIEND01", *invited.ReferredByCode)
}

func TestRegister_InvalidReferralCodeIgnored(t *testing.T) {
	db := setupDB(t)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest("/auth/register", registerBody("alone", "alone@example.com", "secret1", "NOSUCH99")))
	require.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	db.Model(&models.Referral{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestRegister_ClosedRegistration(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.Setting{AppName: "TaskEarn", MinWithdraw: 5, MaxWithdraw: 1000, ReferralBonus: 1, ClosedRegister: true}).Error)

	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest("/auth/register", registerBody("blocked", "blocked@example.com", "secret1", "")))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegister_PasswordMismatchRejected(t *testing.T) {
	setupDB(t)

	body := `{"username":"odd","email":"odd@example.com","password":"secret1","password_confirmation":"secret2"}`
	rec := httptest.NewRecorder()
	RegisterHandler(rec, jsonRequest("/auth/register", body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	db := setupDB(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	p := &models.Profile{Username: "login", Email: "login@example.com", Password: string(hashed), ReferralCode: "LOGIN001"}
	require.NoError(t, db.Create(p).Error)

	rec := httptest.NewRecorder()
	LoginHandler(rec, jsonRequest("/auth/login", `{"email":"login@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	require.NotEmpty(t, resp.Data.RefreshToken)
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	db := setupDB(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	p := &models.Profile{Username: "victim", Email: "victim@example.com", Password: string(hashed), ReferralCode: "VICTIM01"}
	require.NoError(t, db.Create(p).Error)
	// lockout state is process-global, keyed by user id
	t.Cleanup(func() { middleware.ResetFailedLogin(p.ID) })

	rec := httptest.NewRecorder()
	LoginHandler(rec, jsonRequest("/auth/login", `{"email":"victim@example.com","password":"wrong99"}`))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogin_RequiresAdminRole(t *testing.T) {
	db := setupDB(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	p := &models.Profile{Username: "plain", Email: "plain@example.com", Password: string(hashed), ReferralCode: "PLAIN001"}
	require.NoError(t, db.Create(p).Error)

	rec := httptest.NewRecorder()
	AdminLoginHandler(rec, jsonRequest("/auth/admin/login", `{"email":"plain@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, db.Create(&models.AdminRole{UserID: p.ID}).Error)

	rec = httptest.NewRecorder()
	AdminLoginHandler(rec, jsonRequest("/auth/admin/login", `{"email":"plain@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	db := setupDB(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	p := &models.Profile{Username: "rotator", Email: "rotator@example.com", Password: string(hashed), ReferralCode: "ROTATE01"}
	require.NoError(t, db.Create(p).Error)

	rec := httptest.NewRecorder()
	LoginHandler(rec, jsonRequest("/auth/login", `{"email":"rotator@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var login authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = httptest.NewRecorder()
	RefreshHandler(rec, jsonRequest("/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, login.Data.RefreshToken)))
	require.Equal(t, http.StatusOK, rec.Code)
	var refreshed authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	require.NotEqual(t, login.Data.RefreshToken, refreshed.Data.RefreshToken)

	// the old token is revoked and cannot be replayed
	rec = httptest.NewRecorder()
	RefreshHandler(rec, jsonRequest("/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, login.Data.RefreshToken)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
