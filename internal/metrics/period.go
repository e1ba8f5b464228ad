package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/watchdesk/internal/model"
)

// All selects every month or every year of a Period.
const All = -1

// Period selects records by the month and year of their relevant date.
// Month is 0-11 (January is 0) or All; Year is a four-digit year or All.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// AllTime matches every record.
var AllTime = Period{Month: All, Year: All}

// ParsePeriod parses month and year selectors as they arrive in query
// strings. Empty values and "all" select everything on that axis.
func ParsePeriod(month, year string) (Period, error) {
	p := AllTime

	month = strings.TrimSpace(month)
	if month != "" && !strings.EqualFold(month, "all") {
		m, err := strconv.Atoi(month)
		if err != nil || m < 0 || m > 11 {
			return p, fmt.Errorf("invalid month %q: must be 0-11 or all", month)
		}
		p.Month = m
	}

	year = strings.TrimSpace(year)
	if year != "" && !strings.EqualFold(year, "all") {
		y, err := strconv.Atoi(year)
		if err != nil || len(year) != 4 || y < 1000 {
			return p, fmt.Errorf("invalid year %q: must be a four-digit year or all", year)
		}
		p.Year = y
	}

	return p, nil
}

// Contains reports whether t falls inside the period. Dates are compared in UTC.
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	if p.Month != All && int(t.Month())-1 != p.Month {
		return false
	}
	if p.Year != All && t.Year() != p.Year {
		return false
	}
	return true
}

// String renders the period as "all", "2025", "3/all" or "3/2025".
func (p Period) String() string {
	switch {
	case p.Month == All && p.Year == All:
		return "all"
	case p.Month == All:
		return strconv.Itoa(p.Year)
	case p.Year == All:
		return strconv.Itoa(p.Month) + "/all"
	default:
		return strconv.Itoa(p.Month) + "/" + strconv.Itoa(p.Year)
	}
}

// RelevantDate is the date a watch is bucketed by: the sale date of a sold
// watch, the purchase date otherwise. Nil means the watch has neither.
func RelevantDate(w *model.Watch) *time.Time {
	if w.Status == model.WatchStatusSold {
		if d := w.SaleDate(); d != nil {
			return d
		}
	}
	return w.PurchaseDate
}

// FilterWatches returns the watches whose relevant date falls inside p.
// Watches without any date always pass so legacy rows are never dropped.
func FilterWatches(watches []model.Watch, p Period) []model.Watch {
	out := make([]model.Watch, 0, len(watches))
	for i := range watches {
		d := RelevantDate(&watches[i])
		if d == nil || p.Contains(*d) {
			out = append(out, watches[i])
		}
	}
	return out
}

// FilterExpenses returns the expenses dated inside p. Undated expenses pass.
func FilterExpenses(expenses []model.Expense, p Period) []model.Expense {
	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.IsZero() || p.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// DaysInPeriod returns the number of days profit per day is spread over.
// earliestSale is only consulted for the all-time period; nil there means
// nothing has sold yet and a full year is assumed.
func DaysInPeriod(p Period, earliestSale *time.Time, now time.Time) int {
	switch {
	case p.Month != All && p.Year != All:
		return daysInMonth(p.Year, p.Month)
	case p.Month != All:
		return daysInMonth(now.Year(), p.Month)
	case p.Year != All:
		return daysInYear(p.Year)
	case earliestSale == nil:
		return 365
	default:
		return wholeDays(*earliestSale, now)
	}
}

// daysInMonth returns the length of month (0-11) in year.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInYear(year int) int {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return wholeDays(start, start.AddDate(1, 0, 0))
}

// wholeDays returns the whole days from a to b, never negative.
func wholeDays(a, b time.Time) int {
	d := b.Sub(a)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
