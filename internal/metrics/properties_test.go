package metrics

import (
	"math"
	"sort"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/erazemk/watchdesk/internal/model"
)

var statuses = []string{
	model.WatchStatusIncoming,
	model.WatchStatusReceived,
	model.WatchStatusServicing,
	model.WatchStatusInStock,
	model.WatchStatusSold,
}

func optionalAmount(t *rapid.T, label string) *int64 {
	if !rapid.Bool().Draw(t, label+"Set") {
		return nil
	}
	v := rapid.Int64Range(0, 5_000_000).Draw(t, label)
	return &v
}

func optionalDate(t *rapid.T, label string) *time.Time {
	if rapid.IntRange(0, 9).Draw(t, label+"Set") == 0 {
		return nil
	}
	days := rapid.IntRange(0, 3*365).Draw(t, label)
	d := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &d
}

func watchGen() *rapid.Generator[model.Watch] {
	return rapid.Custom(func(t *rapid.T) model.Watch {
		return model.Watch{
			Brand:         rapid.SampledFrom([]string{"Rolex", "Omega", "Tudor", "Seiko"}).Draw(t, "brand"),
			PurchasePrice: rapid.Int64Range(0, 5_000_000).Draw(t, "purchase"),
			SalePrice:     optionalAmount(t, "sale"),
			ImportFee:     optionalAmount(t, "import"),
			ServiceFee:    optionalAmount(t, "service"),
			PolishFee:     optionalAmount(t, "polish"),
			PlatformFees:  optionalAmount(t, "platform"),
			ShippingFee:   optionalAmount(t, "shipping"),
			InsuranceFee:  optionalAmount(t, "insurance"),
			WatchRegister: rapid.Bool().Draw(t, "register"),
			PurchaseDate:  optionalDate(t, "purchased"),
			SoldDate:      optionalDate(t, "sold"),
			DateSold:      optionalDate(t, "dateSold"),
			Status:        rapid.SampledFrom(statuses).Draw(t, "status"),
		}
	})
}

func watchesGen() *rapid.Generator[[]model.Watch] {
	return rapid.Custom(func(t *rapid.T) []model.Watch {
		ws := rapid.SliceOfN(watchGen(), 0, 30).Draw(t, "watches")
		for i := range ws {
			ws[i].ID = int64(i + 1)
		}
		return ws
	})
}

func expensesGen() *rapid.Generator[[]model.Expense] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) model.Expense {
		e := model.Expense{Amount: rapid.Int64Range(0, 1_000_000).Draw(t, "amount")}
		if d := optionalDate(t, "date"); d != nil {
			e.Date = *d
		}
		return e
	}), 0, 20)
}

func periodGen() *rapid.Generator[Period] {
	return rapid.Custom(func(t *rapid.T) Period {
		return Period{
			Month: rapid.IntRange(All, 11).Draw(t, "month"),
			Year:  rapid.SampledFrom([]int{All, 2023, 2024, 2025}).Draw(t, "year"),
		}
	})
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func TestFeesProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := watchGen().Draw(t, "watch")
		fees := Fees(&w)
		if fees < 0 {
			t.Fatalf("negative fees %d", fees)
		}

		w.WatchRegister = false
		without := Fees(&w)
		w.WatchRegister = true
		if with := Fees(&w); with-without != model.WatchRegisterFee {
			t.Fatalf("register flag changed fees by %d", with-without)
		}
	})
}

func TestAggregateProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		watches := watchesGen().Draw(t, "watches")
		expenses := expensesGen().Draw(t, "expenses")
		p := periodGen().Draw(t, "period")

		s := Compute(watches, expenses, p, Options{Now: testNow})

		if s.GrossProfit != s.TotalRevenue-s.TotalCOGS {
			t.Fatalf("gross %d != revenue %d - cogs %d", s.GrossProfit, s.TotalRevenue, s.TotalCOGS)
		}
		if s.TotalRevenue == 0 && s.AverageMargin != 0 {
			t.Fatalf("margin %v with zero revenue", s.AverageMargin)
		}
		for name, v := range map[string]float64{
			"margin":       s.AverageMargin,
			"roi":          s.ROI,
			"profitPerDay": s.ProfitPerDay,
			"avgHoldTime":  s.AvgHoldTime,
			"avgDays":      s.AvgDaysOnMarket,
		} {
			if !finite(v) {
				t.Fatalf("%s is %v", name, v)
			}
		}
		if s.AvgHoldTime < 0 || s.AvgDaysOnMarket < 0 {
			t.Fatalf("negative hold time")
		}
		if got := s.HoldBuckets.Quick + s.HoldBuckets.Average + s.HoldBuckets.Slow; got != s.SoldCount {
			t.Fatalf("buckets hold %d sales, sold %d", got, s.SoldCount)
		}
		if len(s.Sales) != s.SoldCount {
			t.Fatalf("%d sales for %d sold", len(s.Sales), s.SoldCount)
		}
		var brandCount int
		for _, b := range s.Brands {
			brandCount += b.Count
		}
		if brandCount != s.SoldCount {
			t.Fatalf("brands count %d sales, sold %d", brandCount, s.SoldCount)
		}
	})
}

func TestPeriodPartitionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		watches := watchesGen().Draw(t, "watches")
		year := rapid.SampledFrom([]int{2023, 2024, 2025}).Draw(t, "year")

		dated := func(ws []model.Watch) []int64 {
			var ids []int64
			for i := range ws {
				if RelevantDate(&ws[i]) != nil {
					ids = append(ids, ws[i].ID)
				}
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			return ids
		}

		want := dated(FilterWatches(watches, Period{Month: All, Year: year}))

		seen := make(map[int64]int)
		for m := 0; m < 12; m++ {
			month := FilterWatches(watches, Period{Month: m, Year: year})
			for _, id := range dated(month) {
				seen[id]++
			}
			if undated := len(month) - len(dated(month)); undated != countUndated(watches) {
				t.Fatalf("month %d kept %d of %d undated watches", m, undated, countUndated(watches))
			}
		}
		var got []int64
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("watch %d appears in %d months", id, n)
			}
			got = append(got, id)
		}
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

		if len(got) != len(want) {
			t.Fatalf("months cover %v, year covers %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("months cover %v, year covers %v", got, want)
			}
		}
	})
}

func TestCompareIdentityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		watches := watchesGen().Draw(t, "watches")
		expenses := expensesGen().Draw(t, "expenses")
		p := periodGen().Draw(t, "period")

		c := Compare(watches, expenses, p, p, KnownMetrics, Options{Now: testNow})
		for _, m := range c.Metrics {
			if m.Diff != 0 || m.PercentChange != 0 {
				t.Fatalf("%s: diff %v, change %v", m.Name, m.Diff, m.PercentChange)
			}
		}
	})
}

func countUndated(ws []model.Watch) int {
	var n int
	for i := range ws {
		if RelevantDate(&ws[i]) == nil {
			n++
		}
	}
	return n
}
