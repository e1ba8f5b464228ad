package metrics

import (
	"math"
	"strings"

	"github.com/erazemk/watchdesk/internal/model"
)

// MetricSpec names a Snapshot figure to compare. For cost-like metrics a
// decrease is an improvement, so their percent change is reported negated.
// Money metrics are amounts in minor units.
type MetricSpec struct {
	Name     string `json:"name"`
	CostLike bool   `json:"costLike"`
	Money    bool   `json:"money"`
}

// Metric names accepted by Snapshot.Value.
const (
	MetricSoldCount       = "soldCount"
	MetricActiveCount     = "activeCount"
	MetricTotalRevenue    = "totalRevenue"
	MetricTotalCOGS       = "totalCogs"
	MetricTotalFees       = "totalFees"
	MetricTotalImportFees = "totalImportFees"
	MetricTotalExpenses   = "totalExpenses"
	MetricGrossProfit     = "grossProfit"
	MetricNetProfit       = "netProfit"
	MetricAverageMargin   = "averageMargin"
	MetricROI             = "roi"
	MetricProfitPerDay    = "profitPerDay"
	MetricCapitalDeployed = "capitalDeployed"
	MetricAvgHoldTime     = "avgHoldTime"
	MetricAvgDaysOnMarket = "avgDaysOnMarket"
)

// KnownMetrics lists every comparable metric in display order.
var KnownMetrics = []MetricSpec{
	{Name: MetricTotalRevenue, Money: true},
	{Name: MetricGrossProfit, Money: true},
	{Name: MetricNetProfit, Money: true},
	{Name: MetricAverageMargin},
	{Name: MetricROI},
	{Name: MetricProfitPerDay, Money: true},
	{Name: MetricSoldCount},
	{Name: MetricActiveCount},
	{Name: MetricCapitalDeployed, Money: true},
	{Name: MetricAvgDaysOnMarket},
	{Name: MetricTotalCOGS, CostLike: true, Money: true},
	{Name: MetricTotalFees, CostLike: true, Money: true},
	{Name: MetricTotalImportFees, CostLike: true, Money: true},
	{Name: MetricTotalExpenses, CostLike: true, Money: true},
	{Name: MetricAvgHoldTime, CostLike: true},
}

// DefaultComparisonMetrics is used when a comparison names no metrics.
var DefaultComparisonMetrics = []MetricSpec{
	{Name: MetricTotalRevenue, Money: true},
	{Name: MetricNetProfit, Money: true},
	{Name: MetricAverageMargin},
	{Name: MetricSoldCount},
	{Name: MetricProfitPerDay, Money: true},
	{Name: MetricTotalFees, CostLike: true, Money: true},
	{Name: MetricTotalExpenses, CostLike: true, Money: true},
}

// LookupMetrics resolves metric names to specs. Unknown names are dropped;
// an empty result falls back to DefaultComparisonMetrics.
func LookupMetrics(names []string) []MetricSpec {
	var specs []MetricSpec
	for _, name := range names {
		name = strings.TrimSpace(name)
		for _, m := range KnownMetrics {
			if m.Name == name {
				specs = append(specs, m)
				break
			}
		}
	}
	if len(specs) == 0 {
		return DefaultComparisonMetrics
	}
	return specs
}

// Value returns the named figure and whether the name is known.
func (s Snapshot) Value(name string) (float64, bool) {
	switch name {
	case MetricSoldCount:
		return float64(s.SoldCount), true
	case MetricActiveCount:
		return float64(s.ActiveCount), true
	case MetricTotalRevenue:
		return float64(s.TotalRevenue), true
	case MetricTotalCOGS:
		return float64(s.TotalCOGS), true
	case MetricTotalFees:
		return float64(s.TotalFees), true
	case MetricTotalImportFees:
		return float64(s.TotalImportFees), true
	case MetricTotalExpenses:
		return float64(s.TotalExpenses), true
	case MetricGrossProfit:
		return float64(s.GrossProfit), true
	case MetricNetProfit:
		return float64(s.NetProfit), true
	case MetricAverageMargin:
		return s.AverageMargin, true
	case MetricROI:
		return s.ROI, true
	case MetricProfitPerDay:
		return s.ProfitPerDay, true
	case MetricCapitalDeployed:
		return float64(s.CapitalDeployed), true
	case MetricAvgHoldTime:
		return s.AvgHoldTime, true
	case MetricAvgDaysOnMarket:
		return s.AvgDaysOnMarket, true
	}
	return 0, false
}

// MetricDelta pairs one metric across two periods.
type MetricDelta struct {
	Name          string  `json:"name"`
	CostLike      bool    `json:"costLike"`
	Money         bool    `json:"money"`
	Value1        float64 `json:"value1"`
	Value2        float64 `json:"value2"`
	Diff          float64 `json:"diff"`
	PercentChange float64 `json:"percentChange"`
}

// Comparison is the result of comparing period A against period B.
type Comparison struct {
	PeriodA Period        `json:"periodA"`
	PeriodB Period        `json:"periodB"`
	A       Snapshot      `json:"a"`
	B       Snapshot      `json:"b"`
	Metrics []MetricDelta `json:"metrics"`
}

// Compare computes both periods from the full record sets and pairs the
// requested metrics. Value1 belongs to a, Value2 to b.
func Compare(watches []model.Watch, expenses []model.Expense, a, b Period, specs []MetricSpec, opts Options) Comparison {
	opts = opts.normalize()
	c := Comparison{
		PeriodA: a,
		PeriodB: b,
		A:       Compute(watches, expenses, a, opts),
		B:       Compute(watches, expenses, b, opts),
		Metrics: make([]MetricDelta, 0, len(specs)),
	}
	for _, spec := range specs {
		v1, ok := c.A.Value(spec.Name)
		if !ok {
			continue
		}
		v2, _ := c.B.Value(spec.Name)
		c.Metrics = append(c.Metrics, Delta(spec, v1, v2))
	}
	return c
}

// Delta computes the difference and percent change of v1 against v2.
func Delta(spec MetricSpec, v1, v2 float64) MetricDelta {
	d := MetricDelta{
		Name:     spec.Name,
		CostLike: spec.CostLike,
		Money:    spec.Money,
		Value1:   v1,
		Value2:   v2,
		Diff:     v1 - v2,
	}
	switch {
	case v2 != 0:
		d.PercentChange = d.Diff / math.Abs(v2) * 100
	case v1 > 0:
		d.PercentChange = 100
	}
	if spec.CostLike && d.PercentChange != 0 {
		d.PercentChange = -d.PercentChange
	}
	return d
}
