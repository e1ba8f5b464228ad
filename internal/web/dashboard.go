package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/watchdesk/internal/metrics"
	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/store"
)

// currentMonth returns the period of the report service's current month.
func (s *Server) currentMonth() metrics.Period {
	now := s.Reports.Now().UTC()
	return metrics.Period{Month: int(now.Month()) - 1, Year: now.Year()}
}

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	stats, err := s.Reports.Dashboard(r.Context())
	if err != nil {
		slog.Error("failed to compute dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	period := s.currentMonth()
	month, err := s.Reports.Snapshot(r.Context(), period)
	if err != nil {
		slog.Error("failed to compute monthly snapshot", "period", period.String(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	inventory, err := store.ListInventory(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list inventory for dashboard", "error", err)
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Stats     metrics.DashboardStats
		Month     metrics.Snapshot
		Inventory []model.StatusSummary
	}{
		PageData:  PageData{Title: "Dashboard", User: claims},
		Stats:     stats,
		Month:     month,
		Inventory: inventory,
	})
}
