package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/watchdesk/internal/metrics"
	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/store"
)

// watchRow is one line of the watches table.
type watchRow struct {
	model.Watch
	Fees int64
	// Sale is set for finalized sales only.
	Sale *metrics.Sale
}

// WatchesPage handles GET /watches?status=.
func (s *Server) WatchesPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidWatchStatus(status) {
		status = ""
	}

	watches, err := store.ListWatches(r.Context(), s.DB, status)
	if err != nil {
		slog.Error("failed to list watches", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rows := make([]watchRow, 0, len(watches))
	for i := range watches {
		row := watchRow{Watch: watches[i], Fees: metrics.Fees(&watches[i])}
		if watches[i].IsSold() {
			sale := metrics.SaleOf(&watches[i])
			row.Sale = &sale
		}
		rows = append(rows, row)
	}

	s.Templates.Render(w, "watches.html", &struct {
		PageData
		Watches  []watchRow
		Status   string
		Statuses []string
	}{
		PageData: PageData{Title: "Watches", User: claims},
		Watches:  rows,
		Status:   status,
		Statuses: []string{
			model.WatchStatusIncoming,
			model.WatchStatusReceived,
			model.WatchStatusServicing,
			model.WatchStatusInStock,
			model.WatchStatusSold,
		},
	})
}

// WatchImage handles GET /watches/{id}/image.
func (s *Server) WatchImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := store.GetWatchImage(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
