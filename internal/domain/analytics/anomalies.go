package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

// MaxAlerts caps the number of alerts returned by DetectAnomalies
const MaxAlerts = 5

// Alert ids, stable per rule
const (
	AlertProfitNegative    = "profit-negative"
	AlertHighExpenses      = "high-expenses"
	AlertRevenueDrop       = "revenue-drop"
	AlertHighVolatility    = "high-volatility"
	AlertInactiveCustomers = "inactive-customers"
	AlertLowProductivity   = "low-productivity"
)

// AnomalyAlert is a ranked warning produced by a detection rule.
// Impact is a heuristic 0..100 used only for ranking.
type AnomalyAlert struct {
	ID          string        `json:"id"`
	Type        enum.Severity `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Impact      int           `json:"impact"`
	Timestamp   time.Time     `json:"timestamp"`
}

type anomalyInput struct {
	snapshot Snapshot
	metrics  DashboardMetrics
	now      time.Time
}

// anomalyRule pairs a detection predicate with the alert it produces.
// detect returns the alert description and whether the rule fired.
type anomalyRule struct {
	id       string
	severity enum.Severity
	impact   int
	title    string
	detect   func(in anomalyInput) (string, bool)
}

func (r anomalyRule) alert(description string, at time.Time) AnomalyAlert {
	return AnomalyAlert{
		ID:          r.id,
		Type:        r.severity,
		Title:       r.title,
		Description: description,
		Impact:      r.impact,
		Timestamp:   at,
	}
}

// anomalyRules is evaluated in order; each rule is independent of the others
var anomalyRules = []anomalyRule{
	{
		id: AlertProfitNegative, severity: enum.SeverityHigh, impact: 95,
		title:  "Negative Profit Alert",
		detect: detectNegativeProfit,
	},
	{
		id: AlertHighExpenses, severity: enum.SeverityHigh, impact: 85,
		title:  "Expense Ratio Critical",
		detect: detectHighExpenses,
	},
	{
		id: AlertRevenueDrop, severity: enum.SeverityHigh, impact: 80,
		title:  "Sudden Revenue Drop",
		detect: detectRevenueDrop,
	},
	{
		id: AlertHighVolatility, severity: enum.SeverityMedium, impact: 60,
		title:  "High Sales Volatility",
		detect: detectVolatility,
	},
	{
		id: AlertInactiveCustomers, severity: enum.SeverityMedium, impact: 70,
		title:  "High Customer Churn",
		detect: detectInactiveCustomers,
	},
	{
		id: AlertLowProductivity, severity: enum.SeverityMedium, impact: 50,
		title:  "Underperforming Products",
		detect: detectUnsoldProducts,
	},
}

// DetectAnomalies runs every rule against the snapshot and its metrics and returns
// the MaxAlerts alerts with the highest impact
func DetectAnomalies(s Snapshot, m DashboardMetrics, now time.Time) []AnomalyAlert {
	in := anomalyInput{snapshot: s, metrics: m, now: now}

	alerts := make([]AnomalyAlert, 0, len(anomalyRules))
	for _, rule := range anomalyRules {
		if description, ok := rule.detect(in); ok {
			alerts = append(alerts, rule.alert(description, now))
		}
	}
	return RankAlerts(alerts, MaxAlerts)
}

// RankAlerts orders alerts by impact, highest first, keeping rule order on ties,
// and keeps at most limit of them. The input slice is not modified.
func RankAlerts(alerts []AnomalyAlert, limit int) []AnomalyAlert {
	ranked := append(make([]AnomalyAlert, 0, len(alerts)), alerts...)
	slices.SortStableFunc(ranked, func(a, b AnomalyAlert) int {
		return cmp.Compare(b.Impact, a.Impact)
	})
	return truncate(ranked, limit)
}

func detectNegativeProfit(in anomalyInput) (string, bool) {
	m := in.metrics
	if m.NetProfit >= 0 || m.TotalRevenue <= 0 {
		return "", false
	}
	return fmt.Sprintf("Your business is operating at a loss with %.0f in negative profit.", m.NetProfit), true
}

func detectHighExpenses(in anomalyInput) (string, bool) {
	m := in.metrics
	if m.TotalRevenue <= 0 {
		return "", false
	}
	expenseRatio := m.TotalExpenses / m.TotalRevenue
	if expenseRatio <= 0.7 {
		return "", false
	}
	return fmt.Sprintf("Expenses are %.0f%% of revenue. Healthy ratio is below 50%%.", expenseRatio*100), true
}

func detectRevenueDrop(in anomalyInput) (string, bool) {
	currentStart, previousStart := weekWindows(in.now)

	var lastWeek, previousWeek float64
	for _, s := range completedSales(in.snapshot.Sales) {
		switch {
		case inCurrentWeek(s.Date, currentStart):
			lastWeek += s.TotalAmount
		case inPreviousWeek(s.Date, currentStart, previousStart):
			previousWeek += s.TotalAmount
		}
	}

	if previousWeek <= 0 || lastWeek >= previousWeek*0.5 {
		return "", false
	}
	drop := (previousWeek - lastWeek) / previousWeek * 100
	return fmt.Sprintf("Revenue dropped by %.0f%% compared to last week.", drop), true
}

// detectVolatility fires when the coefficient of variation of completed sale
// amounts exceeds 1.5. It needs more than five sales of any status.
func detectVolatility(in anomalyInput) (string, bool) {
	if len(in.snapshot.Sales) <= 5 {
		return "", false
	}
	amounts := lo.Map(completedSales(in.snapshot.Sales), func(s entity.Sale, _ int) float64 {
		return s.TotalAmount
	})
	cv, ok := coefficientOfVariation(amounts)
	if !ok || cv <= 1.5 {
		return "", false
	}
	return fmt.Sprintf("Your sales show high variability (%.0f%% CV). This indicates inconsistent customer demand.", cv*100), true
}

// coefficientOfVariation returns population stddev / mean. ok is false when the
// sample is empty or its mean is zero.
func coefficientOfVariation(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	mean := lo.Sum(values) / float64(len(values))
	if mean == 0 {
		return 0, false
	}
	variance := lo.SumBy(values, func(v float64) float64 { return (v - mean) * (v - mean) }) / float64(len(values))
	return math.Sqrt(variance) / mean, true
}

func detectInactiveCustomers(in anomalyInput) (string, bool) {
	customers := in.snapshot.Customers
	cutoff := daysAgo(in.now, 60)
	inactive := lo.CountBy(customers, func(c entity.Customer) bool { return c.InactiveSince(cutoff) })

	if float64(inactive) <= float64(len(customers))*0.3 {
		return "", false
	}
	return fmt.Sprintf("%d customers are inactive for over 60 days. Consider retention campaigns.", inactive), true
}

func detectUnsoldProducts(in anomalyInput) (string, bool) {
	products := in.snapshot.Products
	if len(products) <= 1 {
		return "", false
	}

	sold := lo.SliceToMap(revenueByProduct(in.snapshot.Sales), func(t revenueTotal) (uuid.UUID, bool) {
		return t.productID, true
	})
	unsold := lo.CountBy(products, func(p entity.Product) bool { return !sold[p.ID] })
	if unsold == 0 {
		return "", false
	}
	return fmt.Sprintf("%d products have zero sales. Consider discontinuing or promoting them.", unsold), true
}
