package web

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/auth"
	"github.com/erazemk/watchdesk/internal/report"
	webembed "github.com/erazemk/watchdesk/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sqlx.DB, jwtSecret string, reports *report.Service, limiter auth.Limiter) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
		Reports:   reports,
		Limiter:   limiter,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.HandlerFunc(s.Dashboard)))
	mux.Handle("GET /watches", cookieAuth(http.HandlerFunc(s.WatchesPage)))
	mux.Handle("GET /watches/{id}/image", cookieAuth(http.HandlerFunc(s.WatchImage)))
	mux.Handle("GET /analytics", cookieAuth(http.HandlerFunc(s.AnalyticsPage)))

	return mux, nil
}
