package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/watchdesk/internal/model"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		month, year string
		want        Period
		wantErr     bool
	}{
		{"", "", AllTime, false},
		{"all", "ALL", AllTime, false},
		{"0", "2025", Period{Month: 0, Year: 2025}, false},
		{"11", "all", Period{Month: 11, Year: All}, false},
		{" 3 ", "", Period{Month: 3, Year: All}, false},
		{"12", "", Period{}, true},
		{"-1", "", Period{}, true},
		{"march", "", Period{}, true},
		{"", "25", Period{}, true},
		{"", "20250", Period{}, true},
		{"", "0999", Period{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.month, tt.year)
		if tt.wantErr {
			assert.Error(t, err, "ParsePeriod(%q, %q)", tt.month, tt.year)
			continue
		}
		require.NoError(t, err, "ParsePeriod(%q, %q)", tt.month, tt.year)
		assert.Equal(t, tt.want, got)
	}
}

func TestPeriodContainsUTC(t *testing.T) {
	// 23:30 on Jan 31 at UTC-5 is already February in UTC.
	loc := time.FixedZone("EST", -5*60*60)
	ts := time.Date(2025, time.January, 31, 23, 30, 0, 0, loc)

	assert.True(t, Period{Month: 1, Year: 2025}.Contains(ts))
	assert.False(t, Period{Month: 0, Year: 2025}.Contains(ts))
	assert.True(t, AllTime.Contains(ts))
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "all", AllTime.String())
	assert.Equal(t, "2025", Period{Month: All, Year: 2025}.String())
	assert.Equal(t, "3/all", Period{Month: 3, Year: All}.String())
	assert.Equal(t, "3/2025", Period{Month: 3, Year: 2025}.String())
}

func TestRelevantDate(t *testing.T) {
	w := soldWatch()
	assert.Equal(t, w.SoldDate, RelevantDate(&w))

	w.Status = model.WatchStatusInStock
	assert.Equal(t, w.PurchaseDate, RelevantDate(&w), "unsold watches use purchase date")

	w.Status = model.WatchStatusSold
	w.SoldDate = nil
	assert.Equal(t, w.PurchaseDate, RelevantDate(&w), "sold without date falls back to purchase date")

	w.PurchaseDate = nil
	assert.Nil(t, RelevantDate(&w))
}

func TestFilterWatches(t *testing.T) {
	jan := model.Watch{ID: 1, PurchaseDate: date(2025, time.January, 5), Status: model.WatchStatusInStock}
	sold := soldWatch()
	sold.ID = 2
	dateless := model.Watch{ID: 3, Status: model.WatchStatusIncoming}

	ids := func(ws []model.Watch) []int64 {
		out := []int64{}
		for _, w := range ws {
			out = append(out, w.ID)
		}
		return out
	}
	watches := []model.Watch{jan, sold, dateless}

	assert.Equal(t, []int64{1, 3}, ids(FilterWatches(watches, Period{Month: 0, Year: 2025})))
	assert.Equal(t, []int64{2, 3}, ids(FilterWatches(watches, Period{Month: 1, Year: 2025})))
	assert.Equal(t, []int64{3}, ids(FilterWatches(watches, Period{Month: All, Year: 2024})))
	assert.Equal(t, []int64{1, 2, 3}, ids(FilterWatches(watches, AllTime)))

	assert.NotNil(t, FilterWatches(nil, AllTime))
}

func TestFilterExpenses(t *testing.T) {
	expenses := []model.Expense{
		{ID: 1, Date: *date(2025, time.January, 5)},
		{ID: 2, Date: *date(2025, time.February, 5)},
		{ID: 3},
	}
	got := FilterExpenses(expenses, Period{Month: 1, Year: All})
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}
