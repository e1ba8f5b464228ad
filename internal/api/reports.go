package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/metrics"
	"github.com/erazemk/watchdesk/internal/report"
	"github.com/erazemk/watchdesk/internal/store"
)

// ReportsHandler serves the financial reports.
type ReportsHandler struct {
	DB      *sqlx.DB
	Reports *report.Service
}

// Dashboard handles GET /api/reports/dashboard.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		slog.Error("failed to compute dashboard", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute dashboard")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Metrics handles GET /api/reports/metrics?month=&year=. Months are 0-based;
// a missing or "all" value selects every month or year.
func (h *ReportsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := metrics.ParsePeriod(q.Get("month"), q.Get("year"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.Reports.Snapshot(r.Context(), p)
	if err != nil {
		slog.Error("failed to compute metrics", "period", p.String(), "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	jsonResponse(w, http.StatusOK, snap)
}

// Compare handles
// GET /api/reports/compare?monthA=&yearA=&monthB=&yearB=&metrics=a,b.
func (h *ReportsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := metrics.ParsePeriod(q.Get("monthA"), q.Get("yearA"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "period A: "+err.Error())
		return
	}
	b, err := metrics.ParsePeriod(q.Get("monthB"), q.Get("yearB"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "period B: "+err.Error())
		return
	}

	var names []string
	if raw := q.Get("metrics"); raw != "" {
		names = strings.Split(raw, ",")
	}

	c, err := h.Reports.Compare(r.Context(), a, b, names)
	if err != nil {
		slog.Error("failed to compare periods", "a", a.String(), "b", b.String(), "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compare periods")
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Inventory handles GET /api/reports/inventory: watch count and purchase
// value per status.
func (h *ReportsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	summary, err := store.ListInventory(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to summarize inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to summarize inventory")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}
