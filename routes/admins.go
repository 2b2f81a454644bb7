package routes

import (
	"net/http"
	"time"

	"github.com/erikawesome453-wq/task-dash-earn/controllers/admins"
	"github.com/erikawesome453-wq/task-dash-earn/controllers/auth"
	"github.com/erikawesome453-wq/task-dash-earn/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/auth/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(auth.AdminLoginHandler))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	// Dashboard stats
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.GetDashboardStats)).Methods(http.MethodGet)

	// User management
	adminRouter.Handle("/users", http.HandlerFunc(admins.GetUsers)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.GetUserDetail)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}/promote", http.HandlerFunc(admins.PromoteUser)).Methods(http.MethodPost)
	adminRouter.Handle("/users/{id:[0-9]+}/demote", http.HandlerFunc(admins.DemoteUser)).Methods(http.MethodPost)

	// Transaction settlement
	adminRouter.Handle("/transactions", http.HandlerFunc(admins.GetTransactions)).Methods(http.MethodGet)
	adminRouter.Handle("/transactions/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveTransaction)).Methods(http.MethodPost)
	adminRouter.Handle("/transactions/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectTransaction)).Methods(http.MethodPost)
	adminRouter.Handle("/transactions/settle", http.HandlerFunc(admins.SettleTransactions)).Methods(http.MethodPost)

	// Task management
	adminRouter.Handle("/tasks", http.HandlerFunc(admins.GetTasks)).Methods(http.MethodGet)
	adminRouter.Handle("/tasks", http.HandlerFunc(admins.CreateTask)).Methods(http.MethodPost)
	adminRouter.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.UpdateTask)).Methods(http.MethodPut)
	adminRouter.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.DeleteTask)).Methods(http.MethodDelete)
	adminRouter.Handle("/tasks/{id:[0-9]+}/toggle", http.HandlerFunc(admins.ToggleTask)).Methods(http.MethodPost)
	adminRouter.Handle("/tasks/{id:[0-9]+}/image", http.HandlerFunc(admins.UploadTaskImage)).Methods(http.MethodPost)

	// Settings management
	adminRouter.Handle("/settings", http.HandlerFunc(admins.GetSettings)).Methods(http.MethodGet)
	adminRouter.Handle("/settings", http.HandlerFunc(admins.UpdateSettings)).Methods(http.MethodPut)
}
