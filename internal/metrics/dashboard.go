package metrics

import "github.com/erazemk/watchdesk/internal/model"

// DashboardStats is the whole-business summary shown on the dashboard.
type DashboardStats struct {
	TotalDeployedCapital int64   `json:"totalDeployedCapital"`
	TotalRealizedProfit  int64   `json:"totalRealizedProfit"`
	ActiveCount          int     `json:"activeCount"`
	SoldCount            int     `json:"soldCount"`
	AverageTurnDays      float64 `json:"averageTurnDays"`
}

// Dashboard summarizes every watch and expense regardless of date.
// Realized profit is the all-time net profit; turn days is the mean number
// of days a sold watch spent between purchase and sale.
func Dashboard(watches []model.Watch, expenses []model.Expense, opts Options) DashboardStats {
	snap := Aggregate(watches, expenses, AllTime, opts)
	return DashboardStats{
		TotalDeployedCapital: snap.CapitalDeployed,
		TotalRealizedProfit:  snap.NetProfit,
		ActiveCount:          snap.ActiveCount,
		SoldCount:            snap.SoldCount,
		AverageTurnDays:      snap.AvgDaysOnMarket,
	}
}
