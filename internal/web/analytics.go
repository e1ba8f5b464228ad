package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/watchdesk/internal/auth"
	"github.com/erazemk/watchdesk/internal/metrics"
)

// previousMonth returns the month before p. Periods spanning more than one
// month are returned unchanged.
func previousMonth(p metrics.Period) metrics.Period {
	if p.Month == metrics.All || p.Year == metrics.All {
		return p
	}
	if p.Month == 0 {
		return metrics.Period{Month: 11, Year: p.Year - 1}
	}
	return metrics.Period{Month: p.Month - 1, Year: p.Year}
}

// AnalyticsPage handles GET /analytics. Period A comes from month/year and
// defaults to the current month; period B comes from monthB/yearB and
// defaults to the month before A. Each metric parameter selects a compared
// metric.
func (s *Server) AnalyticsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	q := r.URL.Query()

	a := s.currentMonth()
	if q.Has("month") || q.Has("year") {
		p, err := metrics.ParsePeriod(q.Get("month"), q.Get("year"))
		if err != nil {
			s.renderAnalyticsError(w, claims, err)
			return
		}
		a = p
	}

	b := previousMonth(a)
	if q.Has("monthB") || q.Has("yearB") {
		p, err := metrics.ParsePeriod(q.Get("monthB"), q.Get("yearB"))
		if err != nil {
			s.renderAnalyticsError(w, claims, err)
			return
		}
		b = p
	}

	selected := q["metric"]
	c, err := s.Reports.Compare(r.Context(), a, b, selected)
	if err != nil {
		slog.Error("failed to compare periods", "a", a.String(), "b", b.String(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	chosen := make(map[string]bool, len(c.Metrics))
	for _, m := range c.Metrics {
		chosen[m.Name] = true
	}

	s.Templates.Render(w, "analytics.html", &analyticsData{
		PageData:   PageData{Title: "Analytics", User: claims},
		Comparison: c,
		Known:      metrics.KnownMetrics,
		Chosen:     chosen,
		Months:     monthNames,
	})
}

type analyticsData struct {
	PageData
	Comparison metrics.Comparison
	Known      []metrics.MetricSpec
	Chosen     map[string]bool
	Months     []string
}

func (s *Server) renderAnalyticsError(w http.ResponseWriter, claims *auth.Claims, err error) {
	s.Templates.RenderStatus(w, http.StatusBadRequest, "analytics.html", &analyticsData{
		PageData: PageData{Title: "Analytics", User: claims, Error: err.Error()},
		Known:    metrics.KnownMetrics,
		Chosen:   map[string]bool{},
		Months:   monthNames,
	})
}
