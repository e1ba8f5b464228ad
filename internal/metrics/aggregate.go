package metrics

import (
	"sort"
	"time"

	"github.com/erazemk/watchdesk/internal/model"
)

// DefaultTopN is the number of best and worst sales reported.
const DefaultTopN = 3

// Hold-time bucket bounds in days on market.
const (
	QuickSaleDays = 15
	SlowSaleDays  = 45
)

// Options tune an aggregation. The zero value is usable.
type Options struct {
	// Now anchors open-ended spans (hold time of unsold watches, all-time
	// profit per day). Defaults to time.Now().
	Now time.Time
	// TopN is the size of the top and bottom performer lists.
	TopN int
}

func (o Options) normalize() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	return o
}

// Sale is the per-watch result of a finalized sale.
type Sale struct {
	WatchID       int64     `json:"watchId"`
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	Reference     string    `json:"referenceNumber"`
	PurchasePrice int64     `json:"purchasePrice"`
	SalePrice     int64     `json:"salePrice"`
	Fees          int64     `json:"fees"`
	Profit        int64     `json:"profit"`
	ROI           float64   `json:"roi"`
	DaysOnMarket  int       `json:"daysOnMarket"`
	SoldDate      time.Time `json:"soldDate"`
}

// BrandStat accumulates sales per brand.
type BrandStat struct {
	Brand       string  `json:"brand"`
	Count       int     `json:"count"`
	Revenue     int64   `json:"revenue"`
	Profit      int64   `json:"profit"`
	AvgPerWatch float64 `json:"avgPerWatch"`
}

// HoldBuckets counts sales by days on market.
type HoldBuckets struct {
	Quick   int `json:"quick"`
	Average int `json:"average"`
	Slow    int `json:"slow"`
}

// Snapshot holds every derived figure for one period.
type Snapshot struct {
	Period Period `json:"period"`

	SoldCount   int `json:"soldCount"`
	ActiveCount int `json:"activeCount"`

	TotalRevenue    int64 `json:"totalRevenue"`
	TotalCOGS       int64 `json:"totalCogs"`
	TotalFees       int64 `json:"totalFees"`
	TotalImportFees int64 `json:"totalImportFees"`
	TotalExpenses   int64 `json:"totalExpenses"`
	GrossProfit     int64 `json:"grossProfit"`
	NetProfit       int64 `json:"netProfit"`

	AverageMargin float64 `json:"averageMargin"`
	ROI           float64 `json:"roi"`
	ProfitPerDay  float64 `json:"profitPerDay"`
	DaysInPeriod  int     `json:"daysInPeriod"`

	CapitalDeployed int64   `json:"capitalDeployed"`
	AvgHoldTime     float64 `json:"avgHoldTime"`
	AvgDaysOnMarket float64 `json:"avgDaysOnMarket"`

	Brands      []BrandStat `json:"brands"`
	Top         []Sale      `json:"top"`
	Bottom      []Sale      `json:"bottom"`
	HoldBuckets HoldBuckets `json:"holdBuckets"`
	Sales       []Sale      `json:"sales"`
}

// SaleOf computes the per-watch sale figures. The watch does not have to be
// sold; missing prices and dates count as zero.
func SaleOf(w *model.Watch) Sale {
	s := Sale{
		WatchID:       w.ID,
		Brand:         w.Brand,
		Model:         w.Model,
		Reference:     w.ReferenceNumber,
		PurchasePrice: w.PurchasePrice,
		SalePrice:     model.Int64(w.SalePrice),
		Fees:          Fees(w),
	}
	s.Profit = s.SalePrice - s.PurchasePrice - s.Fees
	s.ROI = percent(float64(s.Profit), float64(s.PurchasePrice))
	if sold := w.SaleDate(); sold != nil {
		s.SoldDate = *sold
		if w.PurchaseDate != nil {
			s.DaysOnMarket = wholeDays(*w.PurchaseDate, *sold)
		}
	}
	return s
}

// Compute filters watches and expenses to p and aggregates the result.
func Compute(watches []model.Watch, expenses []model.Expense, p Period, opts Options) Snapshot {
	return Aggregate(FilterWatches(watches, p), FilterExpenses(expenses, p), p, opts)
}

// Aggregate reduces already filtered watches and expenses into a Snapshot.
// p only determines the number of days profit per day is spread over.
func Aggregate(watches []model.Watch, expenses []model.Expense, p Period, opts Options) Snapshot {
	opts = opts.normalize()

	snap := Snapshot{
		Period: p,
		Brands: []BrandStat{},
		Top:    []Sale{},
		Bottom: []Sale{},
		Sales:  []Sale{},
	}

	var (
		earliestSale *time.Time
		holdDays     int
		holdCount    int
		marketDays   int
		brands       = make(map[string]*BrandStat)
	)

	for i := range watches {
		w := &watches[i]

		if w.PurchaseDate != nil {
			end := opts.Now
			if w.IsSold() {
				end = *w.SaleDate()
			}
			holdDays += wholeDays(*w.PurchaseDate, end)
			holdCount++
		}

		if w.Status != model.WatchStatusSold {
			snap.ActiveCount++
			snap.CapitalDeployed += w.PurchasePrice
			continue
		}
		if !w.IsSold() {
			// Marked sold but never dated: not finalized, not active either.
			continue
		}

		sale := SaleOf(w)
		snap.Sales = append(snap.Sales, sale)
		snap.SoldCount++
		snap.TotalRevenue += sale.SalePrice
		snap.TotalCOGS += sale.PurchasePrice
		snap.TotalFees += sale.Fees
		snap.TotalImportFees += ImportFee(w)
		marketDays += sale.DaysOnMarket

		switch {
		case sale.DaysOnMarket < QuickSaleDays:
			snap.HoldBuckets.Quick++
		case sale.DaysOnMarket <= SlowSaleDays:
			snap.HoldBuckets.Average++
		default:
			snap.HoldBuckets.Slow++
		}

		b, ok := brands[w.Brand]
		if !ok {
			b = &BrandStat{Brand: w.Brand}
			brands[w.Brand] = b
		}
		b.Count++
		b.Revenue += sale.SalePrice
		b.Profit += sale.Profit

		if earliestSale == nil || sale.SoldDate.Before(*earliestSale) {
			d := sale.SoldDate
			earliestSale = &d
		}
	}

	for _, e := range expenses {
		snap.TotalExpenses += e.Amount
	}

	snap.GrossProfit = snap.TotalRevenue - snap.TotalCOGS
	snap.NetProfit = snap.GrossProfit - snap.TotalFees - snap.TotalImportFees - snap.TotalExpenses
	snap.AverageMargin = percent(float64(snap.NetProfit), float64(snap.TotalRevenue))
	snap.ROI = percent(float64(snap.NetProfit), float64(snap.TotalCOGS))

	snap.DaysInPeriod = DaysInPeriod(p, earliestSale, opts.Now)
	if snap.DaysInPeriod > 0 {
		snap.ProfitPerDay = float64(snap.NetProfit) / float64(snap.DaysInPeriod)
	}

	if holdCount > 0 {
		snap.AvgHoldTime = float64(holdDays) / float64(holdCount)
	}
	if snap.SoldCount > 0 {
		snap.AvgDaysOnMarket = float64(marketDays) / float64(snap.SoldCount)
	}

	for _, b := range brands {
		b.AvgPerWatch = float64(b.Profit) / float64(b.Count)
		snap.Brands = append(snap.Brands, *b)
	}
	sort.Slice(snap.Brands, func(i, j int) bool {
		a, b := snap.Brands[i], snap.Brands[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Profit != b.Profit {
			return a.Profit > b.Profit
		}
		return a.Brand < b.Brand
	})

	sort.SliceStable(snap.Sales, func(i, j int) bool {
		if snap.Sales[i].Profit != snap.Sales[j].Profit {
			return snap.Sales[i].Profit > snap.Sales[j].Profit
		}
		return snap.Sales[i].WatchID < snap.Sales[j].WatchID
	})
	snap.Top, snap.Bottom = performers(snap.Sales, opts.TopN)

	return snap
}

// performers splits sales sorted by profit (best first) into the n best and
// the n worst. The worst list starts with the biggest loss.
func performers(sales []Sale, n int) (top, bottom []Sale) {
	if n > len(sales) {
		n = len(sales)
	}
	top = append([]Sale{}, sales[:n]...)
	bottom = make([]Sale, 0, n)
	for i := len(sales) - 1; i >= len(sales)-n; i-- {
		bottom = append(bottom, sales[i])
	}
	return top, bottom
}

// percent returns num/den as a percentage, zero when den is zero.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
