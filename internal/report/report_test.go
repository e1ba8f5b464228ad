package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/watchdesk/internal/db"
	"github.com/erazemk/watchdesk/internal/metrics"
	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/store"
)

type fakeSource struct {
	watches      []model.Watch
	expenses     []model.Expense
	watchErr     error
	expenseErr   error
	watchCalls   int
	expenseCalls int
}

func (f *fakeSource) ListWatches(context.Context, string) ([]model.Watch, error) {
	f.watchCalls++
	return f.watches, f.watchErr
}

func (f *fakeSource) ListExpenses(context.Context) ([]model.Expense, error) {
	f.expenseCalls++
	return f.expenses, f.expenseErr
}

var now = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sale(id int64, price int64, sold *time.Time) model.Watch {
	return model.Watch{
		ID:            id,
		Brand:         "Rolex",
		PurchasePrice: 900000,
		SalePrice:     &price,
		PurchaseDate:  at(2025, time.January, 10),
		SoldDate:      sold,
		Status:        model.WatchStatusSold,
	}
}

func newTestService(src Source) *Service {
	s := NewService(src)
	s.Now = func() time.Time { return now }
	return s
}

func TestSnapshot(t *testing.T) {
	src := &fakeSource{
		watches: []model.Watch{
			sale(1, 1150000, at(2025, time.February, 10)),
			sale(2, 1000000, at(2025, time.March, 10)),
		},
		expenses: []model.Expense{{Amount: 5000, Date: *at(2025, time.February, 1)}},
	}
	svc := newTestService(src)

	snap, err := svc.Snapshot(context.Background(), metrics.Period{Month: 1, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.SoldCount)
	assert.Equal(t, int64(1150000), snap.TotalRevenue)
	assert.Equal(t, int64(5000), snap.TotalExpenses)

	all, err := svc.Snapshot(context.Background(), metrics.AllTime)
	require.NoError(t, err)
	assert.Equal(t, 2, all.SoldCount)

	assert.Equal(t, 2, src.watchCalls, "every call reloads")
}

func TestCompare(t *testing.T) {
	src := &fakeSource{watches: []model.Watch{
		sale(1, 1150000, at(2025, time.February, 10)),
		sale(2, 1000000, at(2025, time.March, 10)),
	}}
	svc := newTestService(src)

	c, err := svc.Compare(context.Background(),
		metrics.Period{Month: 2, Year: 2025}, metrics.Period{Month: 1, Year: 2025},
		[]string{"totalRevenue"})
	require.NoError(t, err)
	require.Len(t, c.Metrics, 1)
	assert.InDelta(t, -150000, c.Metrics[0].Diff, 0.001)

	c, err = svc.Compare(context.Background(), metrics.AllTime, metrics.AllTime, nil)
	require.NoError(t, err)
	assert.Len(t, c.Metrics, len(metrics.DefaultComparisonMetrics))
}

func TestDashboard(t *testing.T) {
	src := &fakeSource{watches: []model.Watch{
		sale(1, 1150000, at(2025, time.February, 10)),
		{ID: 2, PurchasePrice: 400000, Status: model.WatchStatusInStock},
	}}

	stats, err := newTestService(src).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(400000), stats.TotalDeployedCapital)
	assert.Equal(t, int64(250000), stats.TotalRealizedProfit)
	assert.Equal(t, 1, stats.ActiveCount)
	assert.Equal(t, 1, stats.SoldCount)
}

func TestSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	ctx := context.Background()

	svc := newTestService(&fakeSource{watchErr: boom})
	_, err := svc.Snapshot(ctx, metrics.AllTime)
	assert.ErrorIs(t, err, boom)
	_, err = svc.Dashboard(ctx)
	assert.ErrorIs(t, err, boom)

	svc = newTestService(&fakeSource{expenseErr: boom})
	_, err = svc.Compare(ctx, metrics.AllTime, metrics.AllTime, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "loading expenses")
}

func TestServiceOverStore(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	w := sale(0, 1150000, at(2025, time.February, 10))
	fee := int64(10000)
	w.ServiceFee = &fee
	w.WatchRegister = true
	_, err := store.CreateWatch(ctx, database, &w, nil)
	require.NoError(t, err)

	snap, err := newTestService(store.Records{DB: database}).Snapshot(ctx, metrics.Period{Month: 1, Year: 2025})
	require.NoError(t, err)
	require.Len(t, snap.Sales, 1)
	assert.Equal(t, int64(10600), snap.Sales[0].Fees)
	assert.Equal(t, int64(239400), snap.Sales[0].Profit)
	assert.Equal(t, 31, snap.Sales[0].DaysOnMarket)
}
