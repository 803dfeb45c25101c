package analytics

import (
	"time"

	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

// Trend metric names
const (
	TrendRevenue         = "Revenue"
	TrendExpenses        = "Expenses"
	TrendActiveCustomers = "Active Customers"
	TrendOrders          = "Orders"
)

// TrendAnalysis compares one metric between the trailing week and the week before
type TrendAnalysis struct {
	Metric        string              `json:"metric"`
	Current       float64             `json:"current"`
	Previous      float64             `json:"previous"`
	Change        float64             `json:"change"`
	ChangePercent float64             `json:"change_percent"`
	Trend         enum.TrendDirection `json:"trend"`
}

// AnalyzeTrends compares revenue, expenses, active customers and orders of the
// trailing 7 days with the 7 days before that
func AnalyzeTrends(s Snapshot, now time.Time) []TrendAnalysis {
	currentStart, previousStart := weekWindows(now)

	var current, previous []entity.Sale
	for _, sale := range completedSales(s.Sales) {
		switch {
		case inCurrentWeek(sale.Date, currentStart):
			current = append(current, sale)
		case inPreviousWeek(sale.Date, currentStart, previousStart):
			previous = append(previous, sale)
		}
	}

	var currentCosts, previousCosts float64
	for _, c := range s.Costs {
		switch {
		case inCurrentWeek(c.Date, currentStart):
			currentCosts += c.Amount
		case inPreviousWeek(c.Date, currentStart, previousStart):
			previousCosts += c.Amount
		}
	}

	return []TrendAnalysis{
		newTrend(TrendRevenue, sumSales(current), sumSales(previous), false),
		newTrend(TrendExpenses, currentCosts, previousCosts, true),
		newTrend(TrendActiveCustomers,
			float64(countDistinctCustomers(current)), float64(countDistinctCustomers(previous)), false),
		newTrend(TrendOrders, float64(len(current)), float64(len(previous)), false),
	}
}

// newTrend builds a comparison. lowerIsBetter flips the direction so that a
// decrease is reported as up.
func newTrend(metric string, current, previous float64, lowerIsBetter bool) TrendAnalysis {
	t := TrendAnalysis{
		Metric:   metric,
		Current:  current,
		Previous: previous,
		Change:   current - previous,
		Trend:    enum.TrendStable,
	}
	if previous > 0 {
		t.ChangePercent = (current - previous) / previous * 100
	}

	improved, worsened := current > previous, current < previous
	if lowerIsBetter {
		improved, worsened = worsened, improved
	}
	switch {
	case improved:
		t.Trend = enum.TrendUp
	case worsened:
		t.Trend = enum.TrendDown
	}
	return t
}

// RevenueGrowthRate returns the percent change of completed revenue between the
// requested window and the equal-length window before it. It is 100 when only the
// current window has revenue and 0 when neither has.
func RevenueGrowthRate(sales []entity.Sale, tf enum.TimeFrame, now time.Time) float64 {
	current, previous := tf.GrowthWindows(now)

	var recent, prior float64
	for _, s := range completedSales(sales) {
		switch {
		case !s.Date.Before(current.Start) && !s.Date.After(current.End):
			recent += s.TotalAmount
		case !s.Date.Before(previous.Start) && s.Date.Before(previous.End):
			prior += s.TotalAmount
		}
	}

	if prior == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	return (recent - prior) / prior * 100
}
