package routes

import (
	"net/http"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/controllers/auth"
	"github.com/erikawesome453-wq/task-dash-earn/controllers/users"
	"github.com/erikawesome453-wq/task-dash-earn/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers the auth and user-facing routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// per-user session limits: 120 reads, 60 writes per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	// Auth
	api.Handle("/auth/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/auth/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/auth/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/auth/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)
	api.Handle("/auth/logout-all", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutAllHandler)))).Methods(http.MethodPost)

	// Profile
	api.Handle("/users/profile", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ProfileHandler)))).Methods(http.MethodGet)
	api.Handle("/users/profile", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpdateProfileHandler)))).Methods(http.MethodPut)
	api.Handle("/users/profile/password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPut)

	// Tasks
	api.Handle("/users/tasks", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TaskListHandler)))).Methods(http.MethodGet)
	api.Handle("/users/tasks/{id:[0-9]+}/complete", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TaskCompleteHandler)))).Methods(http.MethodPost)

	// Wallet
	api.Handle("/users/wallet/deposit", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.DepositHandler)))).Methods(http.MethodPost)
	api.Handle("/users/wallet/withdraw", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.WithdrawHandler)))).Methods(http.MethodPost)
	api.Handle("/users/wallet/transactions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TransactionsHandler)))).Methods(http.MethodGet)

	// Referrals
	api.Handle("/users/referrals", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ReferralStatsHandler)))).Methods(http.MethodGet)

	// VIP
	api.Handle("/users/vip", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.VIPStatusHandler)))).Methods(http.MethodGet)

	// Push subscriptions
	api.Handle("/users/push/subscribe", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.PushSubscribeHandler)))).Methods(http.MethodPost)
	api.Handle("/users/push/unsubscribe", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.PushUnsubscribeHandler)))).Methods(http.MethodPost)
}
