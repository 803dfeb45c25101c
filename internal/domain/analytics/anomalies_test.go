package analytics

import (
	"testing"

	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
)

func impacts(alerts []AnomalyAlert) []int {
	out := make([]int, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Impact)
	}
	return out
}

func ids(alerts []AnomalyAlert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.ID)
	}
	return out
}

func TestRankAlerts_TopFiveByImpact(t *testing.T) {
	var alerts []AnomalyAlert
	for _, impact := range []int{50, 95, 70, 85, 60, 80} {
		alerts = append(alerts, AnomalyAlert{Impact: impact})
	}

	ranked := RankAlerts(alerts, MaxAlerts)
	require.Equal(t, []int{95, 85, 80, 70, 60}, impacts(ranked))
	// input order preserved
	require.Equal(t, []int{50, 95, 70, 85, 60, 80}, impacts(alerts))
}

func TestRankAlerts_StableOnTies(t *testing.T) {
	alerts := []AnomalyAlert{
		{ID: "a", Impact: 70},
		{ID: "b", Impact: 90},
		{ID: "c", Impact: 70},
	}
	require.Equal(t, []string{"b", "a", "c"}, ids(RankAlerts(alerts, 10)))
	require.Empty(t, RankAlerts(nil, MaxAlerts))
}

func TestDetectAnomalies_EmptySnapshot(t *testing.T) {
	s := Snapshot{}
	alerts := DetectAnomalies(s, ComputeMetrics(s, testNow), testNow)
	require.NotNil(t, alerts)
	require.Empty(t, alerts)
}

func TestDetectAnomalies_LosingBusiness(t *testing.T) {
	widget := newProduct("Widget", "Hardware", 10, 100)
	idle := newProduct("Idle", "Hardware", 10, 100)
	active := withLastOrder(newCustomer("Active", 200), 1)
	gone := withLastOrder(newCustomer("Gone", 200), 90)
	never := newCustomer("Never", 200)

	s := Snapshot{
		Products:  []entity.Product{widget, idle},
		Customers: []entity.Customer{active, gone, never},
		Sales: []entity.Sale{
			completed(active, widget, 1, ago(2)),
			completed(active, widget, 20, ago(10)),
		},
		Costs: []entity.Cost{newCost("Payroll", 5000, ago(3))},
	}

	alerts := DetectAnomalies(s, ComputeMetrics(s, testNow), testNow)
	require.Equal(t, []string{
		AlertProfitNegative,
		AlertHighExpenses,
		AlertRevenueDrop,
		AlertInactiveCustomers,
		AlertLowProductivity,
	}, ids(alerts))

	for _, a := range alerts {
		require.Equal(t, testNow, a.Timestamp)
	}
	require.Equal(t, enum.SeverityHigh, alerts[0].Type)
	require.Equal(t, "Negative Profit Alert", alerts[0].Title)
	require.Equal(t, "Your business is operating at a loss with -3110 in negative profit.", alerts[0].Description)
	require.Equal(t, "Revenue dropped by 95% compared to last week.", alerts[2].Description)
	require.Equal(t, "2 customers are inactive for over 60 days. Consider retention campaigns.", alerts[3].Description)
	require.Equal(t, "1 products have zero sales. Consider discontinuing or promoting them.", alerts[4].Description)
}

func TestDetectAnomalies_CapsAtFive(t *testing.T) {
	widget := newProduct("Widget", "Hardware", 10, 100)
	idle := newProduct("Idle", "Hardware", 10, 100)
	gone := withLastOrder(newCustomer("Gone", 200), 90)

	sales := []entity.Sale{completed(gone, widget, 30, ago(10))}
	for i := 0; i < 6; i++ {
		sales = append(sales, withAmount(completed(gone, widget, 1, ago(30)), 1))
	}
	s := Snapshot{
		Products:  []entity.Product{widget, idle},
		Customers: []entity.Customer{gone},
		Sales:     sales,
		Costs:     []entity.Cost{newCost("Payroll", 50000, ago(3))},
	}

	alerts := DetectAnomalies(s, ComputeMetrics(s, testNow), testNow)
	require.Equal(t, []int{95, 85, 80, 70, 60}, impacts(alerts))
}

func TestDetectNegativeProfit(t *testing.T) {
	_, ok := detectNegativeProfit(anomalyInput{metrics: DashboardMetrics{NetProfit: -10}})
	require.False(t, ok, "no revenue")

	_, ok = detectNegativeProfit(anomalyInput{metrics: DashboardMetrics{NetProfit: 0, TotalRevenue: 10}})
	require.False(t, ok)

	desc, ok := detectNegativeProfit(anomalyInput{metrics: DashboardMetrics{NetProfit: -42.4, TotalRevenue: 10}})
	require.True(t, ok)
	require.Contains(t, desc, "-42 in negative profit")
}

func TestDetectHighExpenses(t *testing.T) {
	_, ok := detectHighExpenses(anomalyInput{metrics: DashboardMetrics{TotalExpenses: 70, TotalRevenue: 100}})
	require.False(t, ok)

	_, ok = detectHighExpenses(anomalyInput{metrics: DashboardMetrics{TotalExpenses: 70}})
	require.False(t, ok)

	desc, ok := detectHighExpenses(anomalyInput{metrics: DashboardMetrics{TotalExpenses: 71, TotalRevenue: 100}})
	require.True(t, ok)
	require.Equal(t, "Expenses are 71% of revenue. Healthy ratio is below 50%.", desc)
}

func TestDetectRevenueDrop(t *testing.T) {
	p := newProduct("Widget", "Hardware", 10, 100)
	c := newCustomer("Alice", 100)

	in := func(sales ...entity.Sale) anomalyInput {
		return anomalyInput{snapshot: Snapshot{Sales: sales}, now: testNow}
	}

	_, ok := detectRevenueDrop(in(completed(c, p, 1, ago(2))))
	require.False(t, ok, "no previous week")

	_, ok = detectRevenueDrop(in(completed(c, p, 1, ago(2)), completed(c, p, 2, ago(9))))
	require.False(t, ok, "exactly half is not a drop")

	desc, ok := detectRevenueDrop(in(completed(c, p, 1, ago(2)), completed(c, p, 4, ago(9))))
	require.True(t, ok)
	require.Equal(t, "Revenue dropped by 75% compared to last week.", desc)
}

func TestDetectVolatility(t *testing.T) {
	p := newProduct("Widget", "Hardware", 10, 100)
	c := newCustomer("Alice", 100)

	steady := make([]entity.Sale, 0, 6)
	for i := 0; i < 6; i++ {
		steady = append(steady, withAmount(completed(c, p, 1, ago(i)), 10))
	}
	_, ok := detectVolatility(anomalyInput{snapshot: Snapshot{Sales: steady}})
	require.False(t, ok)

	spiky := append(steady[:5:5], withAmount(completed(c, p, 1, ago(1)), 1000))
	desc, ok := detectVolatility(anomalyInput{snapshot: Snapshot{Sales: spiky}})
	require.True(t, ok)
	require.Equal(t, "Your sales show high variability (211% CV). This indicates inconsistent customer demand.", desc)

	_, ok = detectVolatility(anomalyInput{snapshot: Snapshot{Sales: spiky[1:]}})
	require.False(t, ok, "five sales are not enough")

	pending := make([]entity.Sale, 0, 6)
	for i := 0; i < 6; i++ {
		pending = append(pending, newSale(c, p, 1, ago(i), enum.SaleStatusPending))
	}
	_, ok = detectVolatility(anomalyInput{snapshot: Snapshot{Sales: pending}})
	require.False(t, ok, "no completed amounts")
}

func TestCoefficientOfVariation(t *testing.T) {
	_, ok := coefficientOfVariation(nil)
	require.False(t, ok)

	_, ok = coefficientOfVariation([]float64{0, 0})
	require.False(t, ok)

	cv, ok := coefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.True(t, ok)
	require.InDelta(t, 0.4, cv, 1e-9)
}

func TestDetectInactiveCustomers(t *testing.T) {
	in := func(customers ...entity.Customer) anomalyInput {
		return anomalyInput{snapshot: Snapshot{Customers: customers}, now: testNow}
	}

	_, ok := detectInactiveCustomers(in())
	require.False(t, ok)

	active := withLastOrder(newCustomer("Active", 100), 10)
	_, ok = detectInactiveCustomers(in(active, active, active, withLastOrder(newCustomer("Gone", 100), 61)))
	require.False(t, ok, "25% inactive")

	_, ok = detectInactiveCustomers(in(active, active, newCustomer("Never", 100)))
	require.True(t, ok)
}

func TestDetectUnsoldProducts(t *testing.T) {
	a := newProduct("A", "x", 1, 2)
	b := newProduct("B", "x", 1, 2)
	c := newCustomer("Alice", 100)

	_, ok := detectUnsoldProducts(anomalyInput{snapshot: Snapshot{Products: []entity.Product{a}}})
	require.False(t, ok, "single product catalog")

	_, ok = detectUnsoldProducts(anomalyInput{snapshot: Snapshot{
		Products: []entity.Product{a, b},
		Sales:    []entity.Sale{completed(c, a, 1, ago(1)), completed(c, b, 1, ago(1))},
	}})
	require.False(t, ok)

	desc, ok := detectUnsoldProducts(anomalyInput{snapshot: Snapshot{
		Products: []entity.Product{a, b},
		Sales:    []entity.Sale{completed(c, a, 1, ago(1)), newSale(c, b, 1, ago(1), enum.SaleStatusPending)},
	}})
	require.True(t, ok)
	require.Equal(t, "1 products have zero sales. Consider discontinuing or promoting them.", desc)
}
