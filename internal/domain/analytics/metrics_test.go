package analytics

import (
	"slices"
	"testing"

	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics_EmptySnapshot(t *testing.T) {
	m := ComputeMetrics(Snapshot{}, testNow)

	require.Zero(t, m.TotalRevenue)
	require.Zero(t, m.TotalExpenses)
	require.Zero(t, m.NetProfit)
	require.Zero(t, m.ProfitMargin)
	require.Zero(t, m.ROI)
	require.Zero(t, m.AOV)
	require.Zero(t, m.CLV)
	require.Zero(t, m.CAC)
	require.Zero(t, m.ChurnRate)
	require.Zero(t, m.RetentionRate)
	require.Nil(t, m.TopProduct)
	// neutral margin component only: 50 * 0.4
	require.Equal(t, 20, m.HealthScore)

	require.NotNil(t, m.SalesByCategory)
	require.Empty(t, m.SalesByCategory)
	require.Empty(t, m.SalesByChannel)
	require.NotNil(t, m.TopCustomers)
	require.Empty(t, m.TopCustomers)
	require.NotNil(t, m.WorstSellingProducts)
	require.NotNil(t, m.ProfitPerProduct)
	require.Empty(t, m.ProfitPerProduct)
}

func TestComputeMetrics_NoCompletedSales(t *testing.T) {
	p := newProduct("Widget", "Hardware", 40, 100)
	c := newCustomer("Alice", 10)
	s := Snapshot{
		Products:  []entity.Product{p},
		Customers: []entity.Customer{c},
		Sales: []entity.Sale{
			newSale(c, p, 3, ago(1), enum.SaleStatusPending),
			newSale(c, p, 1, ago(2), enum.SaleStatusCanceled),
		},
	}

	m := ComputeMetrics(s, testNow)
	require.Zero(t, m.TotalRevenue)
	require.Zero(t, m.AOV)
	require.Zero(t, m.ProfitMargin)
	require.Zero(t, m.TotalSales)
	require.Zero(t, m.TotalUnitsSold)
	require.Nil(t, m.TopProduct)
	require.Equal(t, 20, m.HealthScore)
}

func TestComputeMetrics_SingleProductSale(t *testing.T) {
	p := newProduct("Widget", "Hardware", 50, 100)
	c := newCustomer("Alice", 5)
	s := Snapshot{
		Products:  []entity.Product{p},
		Customers: []entity.Customer{c},
		Sales:     []entity.Sale{completed(c, p, 2, ago(3))},
	}

	m := ComputeMetrics(s, testNow)
	require.Equal(t, 200.0, m.TotalRevenue)
	require.Equal(t, 100.0, m.CostOfGoodsSold)
	require.Equal(t, 100.0, m.GrossProfit)
	require.Equal(t, 100.0, m.NetProfit)
	require.Equal(t, 50.0, m.ProfitMargin)
	require.Equal(t, 100.0, m.TotalInvestment)
	require.Equal(t, 100.0, m.ROI)
	require.Equal(t, 1, m.TotalSales)
	require.Equal(t, 1, m.TotalCustomers)
	require.Equal(t, 2, m.TotalUnitsSold)
	require.Equal(t, 200.0, m.AOV)
	require.NotNil(t, m.TopProduct)
	require.Equal(t, p.ID, m.TopProduct.ID)
	require.Equal(t, []ProductProfit{{ProductID: p.ID, Name: "Widget", Profit: 100}}, m.ProfitPerProduct)
}

func TestComputeMetrics_MixedSnapshot(t *testing.T) {
	s := mixedSnapshot()
	m := ComputeMetrics(s, testNow)

	require.Equal(t, 520.0, m.TotalRevenue)
	require.Equal(t, 210.0, m.TotalExpenses)
	require.Equal(t, 275.0, m.CostOfGoodsSold)
	require.Equal(t, 245.0, m.GrossProfit)
	require.Equal(t, 35.0, m.NetProfit)
	require.Equal(t, 4, m.TotalSales)
	require.Equal(t, 3, m.TotalCustomers)
	require.Equal(t, 5, m.TotalUnitsSold)
	require.Equal(t, 130.0, m.AOV)
	require.Equal(t, "Widget", m.TopProduct.Name)

	require.Equal(t, map[string]float64{"Hardware": 500, "Books": 20}, m.SalesByCategory)
	require.Equal(t, map[string]float64{"online": 200}, m.SalesByChannel)
	require.Equal(t, map[string]float64{"Nairobi": 300, "Mombasa": 200}, m.SalesByRegion)
	require.Equal(t, map[string]float64{"Rent": 150, "Marketing": 60}, m.ExpensesByCategory)

	names := func(ps []entity.Product) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}
	require.Equal(t, []string{"Manual", "Gadget", "Widget"}, names(m.WorstSellingProducts))

	require.Len(t, m.ProfitPerProduct, 3)
	require.Equal(t, "Widget", m.ProfitPerProduct[0].Name)
	require.Equal(t, 180.0, m.ProfitPerProduct[0].Profit)
	require.Equal(t, 50.0, m.ProfitPerProduct[1].Profit)
	require.Equal(t, 15.0, m.ProfitPerProduct[2].Profit)

	require.Equal(t, "Alice", m.TopCustomers[0].Name)
	require.Len(t, m.TopCustomers, 4)
}

func TestComputeMetrics_NetProfitIdentity(t *testing.T) {
	snapshots := map[string]Snapshot{
		"empty": {},
		"mixed": mixedSnapshot(),
		"loss": func() Snapshot {
			s := mixedSnapshot()
			s.Costs = append(s.Costs, newCost("Payroll", 5000, ago(3)))
			return s
		}(),
	}

	for name, s := range snapshots {
		t.Run(name, func(t *testing.T) {
			m := ComputeMetrics(s, testNow)
			require.Equal(t, m.TotalRevenue-m.CostOfGoodsSold-m.TotalExpenses, m.NetProfit)
		})
	}
}

func TestComputeMetrics_HealthScoreBounds(t *testing.T) {
	p := newProduct("Widget", "Hardware", 0, 100)
	c := newCustomer("Alice", 5)
	s := Snapshot{
		Products:  []entity.Product{p},
		Customers: []entity.Customer{c},
		Sales:     []entity.Sale{completed(c, p, 1, ago(1))},
		Costs:     []entity.Cost{newCost("Rent", 300, ago(1))},
	}

	m := ComputeMetrics(s, testNow)
	require.Equal(t, -200.0, m.ProfitMargin)
	require.GreaterOrEqual(t, m.HealthScore, 0)
	require.LessOrEqual(t, m.HealthScore, 100)
	require.Equal(t, 0, m.HealthScore)
}

func TestHealthScore_Clamp(t *testing.T) {
	require.Equal(t, 0, healthScore(healthComponents{margin: -150, growth: -300, retention: -1, efficiency: -200}))
	require.Equal(t, 100, healthScore(healthComponents{margin: 400, growth: 120, retention: 100, efficiency: 500}))
	require.Equal(t, 20, healthScore(healthComponents{margin: 50}))
	// 0.4*75 + 0.3*10 + 0.2*50 + 0.1*33 = 46.3
	require.Equal(t, 46, healthScore(healthComponents{margin: 75, growth: 10, retention: 50, efficiency: 33}))
}

func TestHealthScore_NegativeComponents(t *testing.T) {
	flat := healthComponents{margin: 100, growth: 0, retention: 100, efficiency: 100}
	require.Equal(t, 70, healthScore(flat))

	collapse := flat
	collapse.growth = -100
	// 40 - 30 + 20 + 10
	require.Equal(t, 40, healthScore(collapse))

	// 0.4*50 + 0.1*-50 = 15
	require.Equal(t, 15, healthScore(healthComponents{margin: 50, efficiency: -50}))

	// margin floors at 0 rather than going negative
	require.Equal(t, 30, healthScore(healthComponents{margin: -400, growth: 100}))
}

func TestComputeMetrics_RevenueDropLowersHealthScore(t *testing.T) {
	p := newProduct("Widget", "Hardware", 0, 100)
	c := newCustomer("Alice", 60)
	c.TotalOrders = 2

	snapshot := func(sales ...entity.Sale) Snapshot {
		return Snapshot{
			Products:  []entity.Product{p},
			Customers: []entity.Customer{c},
			Sales:     sales,
		}
	}

	flat := ComputeMetrics(snapshot(completed(c, p, 1, ago(2)), completed(c, p, 1, ago(10))), testNow)
	require.Equal(t, 70, flat.HealthScore)

	dropped := ComputeMetrics(snapshot(completed(c, p, 1, ago(10))), testNow)
	require.Equal(t, 40, dropped.HealthScore)
	require.Less(t, dropped.HealthScore, flat.HealthScore)
}

func TestGrowthTrend(t *testing.T) {
	p := newProduct("Widget", "Hardware", 0, 100)
	c := newCustomer("Alice", 30)

	sales := []entity.Sale{
		completed(c, p, 3, ago(2)),
		completed(c, p, 2, ago(10)),
	}
	require.InDelta(t, 0.5, growthTrend(sales, testNow), 1e-9)

	sales = append(sales, completed(c, p, 10, ago(1)))
	require.Equal(t, 1.0, growthTrend(sales, testNow))

	require.Zero(t, growthTrend([]entity.Sale{completed(c, p, 1, ago(1))}, testNow))
}

func TestComputeMetrics_Idempotent(t *testing.T) {
	s := mixedSnapshot()
	clone := Snapshot{
		Sales:     slices.Clone(s.Sales),
		Costs:     slices.Clone(s.Costs),
		Products:  slices.Clone(s.Products),
		Customers: slices.Clone(s.Customers),
	}

	require.Equal(t, ComputeMetrics(s, testNow), ComputeMetrics(clone, testNow))
	require.Equal(t, ComputeMetrics(s, testNow), ComputeMetrics(s, testNow))
}

func TestComputeMetrics_IgnoresNonCompletedSales(t *testing.T) {
	s := mixedSnapshot()
	base := ComputeMetrics(s, testNow)

	whale := newCustomer("Whale", 3)
	for _, status := range []enum.SaleStatus{enum.SaleStatusPending, enum.SaleStatusCanceled} {
		t.Run(string(status), func(t *testing.T) {
			huge := withAmount(newSale(whale, s.Products[0], 1000, ago(1), status), 1_000_000)
			huge.SalesChannel = ptr("online")

			injected := s
			injected.Sales = append(slices.Clone(s.Sales), huge)
			m := ComputeMetrics(injected, testNow)

			require.Equal(t, base.TotalRevenue, m.TotalRevenue)
			require.Equal(t, base.SalesByCategory, m.SalesByCategory)
			require.Equal(t, base.SalesByChannel, m.SalesByChannel)
			require.Equal(t, base.ProfitPerProduct, m.ProfitPerProduct)
			require.Equal(t, base.TotalCustomers, m.TotalCustomers)
			require.Equal(t, base.TotalUnitsSold, m.TotalUnitsSold)
		})
	}
}

func TestComputeMetrics_DoesNotMutateInput(t *testing.T) {
	s := mixedSnapshot()
	before := slices.Clone(s.Customers)
	productsBefore := slices.Clone(s.Products)

	_ = ComputeMetrics(s, testNow)
	require.Equal(t, before, s.Customers)
	require.Equal(t, productsBefore, s.Products)
}

func TestComputeMetrics_DanglingReferences(t *testing.T) {
	ghost := newProduct("Ghost", "Nowhere", 10, 50)
	c := newCustomer("Alice", 3)
	s := Snapshot{
		Customers: []entity.Customer{c},
		Sales:     []entity.Sale{completed(c, ghost, 2, ago(1))},
	}

	m := ComputeMetrics(s, testNow)
	require.Equal(t, 100.0, m.TotalRevenue)
	require.Zero(t, m.CostOfGoodsSold)
	require.Nil(t, m.TopProduct)
	require.Empty(t, m.SalesByCategory)
	require.Empty(t, m.ProfitPerProduct)
}
