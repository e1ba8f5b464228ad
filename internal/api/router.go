package api

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/auth"
	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/report"
)

// NewRouter creates the API router with all endpoints registered. A nil
// limiter disables login throttling.
func NewRouter(db *sqlx.DB, jwtSecret string, reports *report.Service, limiter auth.Limiter) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Limiter: limiter}
	usersHandler := &UsersHandler{DB: db}
	watchesHandler := &WatchesHandler{DB: db}
	clientsHandler := &ClientsHandler{DB: db}
	expensesHandler := &ExpensesHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db, Reports: reports}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: health and login.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Watches: read (all roles), write (manager+).
	mux.Handle("GET /api/watches", authMW(http.HandlerFunc(watchesHandler.List)))
	mux.Handle("POST /api/watches", authMW(requireManager(http.HandlerFunc(watchesHandler.Create))))
	mux.Handle("GET /api/watches/{id}", authMW(http.HandlerFunc(watchesHandler.Get)))
	mux.Handle("PUT /api/watches/{id}", authMW(requireManager(http.HandlerFunc(watchesHandler.Update))))
	mux.Handle("DELETE /api/watches/{id}", authMW(requireManager(http.HandlerFunc(watchesHandler.Delete))))
	mux.Handle("PUT /api/watches/{id}/image", authMW(requireManager(http.HandlerFunc(watchesHandler.UploadImage))))
	mux.Handle("GET /api/watches/{id}/image", authMW(http.HandlerFunc(watchesHandler.GetImage)))
	mux.Handle("GET /api/watches/{id}/history", authMW(http.HandlerFunc(watchesHandler.GetHistory)))

	// Clients: read (all roles), write (manager+).
	mux.Handle("GET /api/clients", authMW(http.HandlerFunc(clientsHandler.List)))
	mux.Handle("POST /api/clients", authMW(requireManager(http.HandlerFunc(clientsHandler.Create))))
	mux.Handle("GET /api/clients/{id}", authMW(http.HandlerFunc(clientsHandler.Get)))
	mux.Handle("PUT /api/clients/{id}", authMW(requireManager(http.HandlerFunc(clientsHandler.Update))))
	mux.Handle("GET /api/clients/{id}/watches", authMW(http.HandlerFunc(clientsHandler.GetWatches)))

	// Expenses: read (all roles), write (manager+).
	mux.Handle("GET /api/expenses", authMW(http.HandlerFunc(expensesHandler.List)))
	mux.Handle("POST /api/expenses", authMW(requireManager(http.HandlerFunc(expensesHandler.Create))))
	mux.Handle("GET /api/expenses/{id}", authMW(http.HandlerFunc(expensesHandler.Get)))
	mux.Handle("PUT /api/expenses/{id}", authMW(requireManager(http.HandlerFunc(expensesHandler.Update))))
	mux.Handle("DELETE /api/expenses/{id}", authMW(requireManager(http.HandlerFunc(expensesHandler.Delete))))

	// Reports (all roles).
	mux.Handle("GET /api/reports/dashboard", authMW(http.HandlerFunc(reportsHandler.Dashboard)))
	mux.Handle("GET /api/reports/metrics", authMW(http.HandlerFunc(reportsHandler.Metrics)))
	mux.Handle("GET /api/reports/compare", authMW(http.HandlerFunc(reportsHandler.Compare)))
	mux.Handle("GET /api/reports/inventory", authMW(http.HandlerFunc(reportsHandler.Inventory)))

	return mux
}
