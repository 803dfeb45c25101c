package analytics

import (
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
)

// DashboardMetrics is the full aggregate derived from one snapshot.
// It is recomputed on every call and never persisted.
type DashboardMetrics struct {
	TotalRevenue         float64            `json:"total_revenue"`
	TotalExpenses        float64            `json:"total_expenses"`
	CostOfGoodsSold      float64            `json:"cost_of_goods_sold"`
	GrossProfit          float64            `json:"gross_profit"`
	NetProfit            float64            `json:"net_profit"`
	ProfitMargin         float64            `json:"profit_margin"`
	TotalInvestment      float64            `json:"total_investment"`
	ROI                  float64            `json:"roi"`
	TotalSales           int                `json:"total_sales"`
	TotalCustomers       int                `json:"total_customers"`
	TotalUnitsSold       int                `json:"total_units_sold"`
	AOV                  float64            `json:"aov"`
	TopProduct           *entity.Product    `json:"top_product,omitempty"`
	BestSellingProduct   *entity.Product    `json:"best_selling_product,omitempty"`
	HealthScore          int                `json:"health_score"`
	CLV                  float64            `json:"clv"`
	CAC                  float64            `json:"cac"`
	ChurnRate            float64            `json:"churn_rate"`
	RetentionRate        float64            `json:"retention_rate"`
	SalesByCategory      map[string]float64 `json:"sales_by_category"`
	SalesByChannel       map[string]float64 `json:"sales_by_channel"`
	SalesByRegion        map[string]float64 `json:"sales_by_region"`
	ExpensesByCategory   map[string]float64 `json:"expenses_by_category"`
	TopCustomers         []entity.Customer  `json:"top_customers"`
	WorstSellingProducts []entity.Product   `json:"worst_selling_products"`
	ProfitPerProduct     []ProductProfit    `json:"profit_per_product"`
}

// ComputeMetrics derives the dashboard aggregate for one snapshot.
// Only completed sales count toward revenue, units and customer aggregates.
func ComputeMetrics(s Snapshot, now time.Time) DashboardMetrics {
	completed := completedSales(s.Sales)
	products := indexProducts(s.Products)

	var m DashboardMetrics
	m.TotalRevenue = sumSales(completed)
	m.TotalExpenses = sumCosts(s.Costs)
	m.CostOfGoodsSold = lo.SumBy(completed, func(sale entity.Sale) float64 {
		p, ok := products[sale.ProductID]
		if !ok {
			return 0
		}
		return p.CostPrice * float64(sale.Quantity)
	})
	m.GrossProfit = m.TotalRevenue - m.CostOfGoodsSold
	m.NetProfit = m.GrossProfit - m.TotalExpenses
	m.ProfitMargin = percent(m.NetProfit, m.TotalRevenue)
	m.TotalInvestment = m.TotalExpenses + m.CostOfGoodsSold
	m.ROI = percent(m.NetProfit, m.TotalInvestment)

	m.TotalSales = len(completed)
	m.TotalCustomers = countDistinctCustomers(completed)
	m.TotalUnitsSold = TotalUnitsSold(s.Sales)
	m.AOV = ratio(m.TotalRevenue, float64(m.TotalSales))
	m.TopProduct = topProduct(s.Sales, products)
	m.BestSellingProduct = BestSellingProduct(s.Sales, s.Products)

	retention := 0.0
	if len(s.Customers) > 0 {
		repeat := lo.CountBy(s.Customers, func(c entity.Customer) bool { return c.TotalOrders > 1 })
		retention = float64(repeat) / float64(len(s.Customers)) * 100
	}
	m.HealthScore = healthScore(healthComponents{
		margin:     m.ProfitMargin + 50,
		growth:     growthTrend(s.Sales, now) * 100,
		retention:  retention,
		efficiency: percent(m.TotalRevenue-m.TotalExpenses, m.TotalRevenue),
	})

	m.CLV = CustomerLifetimeValue(s.Sales, s.Customers)
	m.CAC = CustomerAcquisitionCost(s.Costs, s.Customers, now)
	m.ChurnRate = ChurnRate(s.Customers, now)
	m.RetentionRate = RetentionRate(s.Customers, now)

	m.SalesByCategory = SalesByCategory(s.Sales, s.Products)
	m.SalesByChannel = SalesByChannel(s.Sales)
	m.SalesByRegion = SalesByRegion(s.Sales, s.Customers)
	m.ExpensesByCategory = ExpensesByCategory(s.Costs)
	m.TopCustomers = TopCustomers(s.Customers, 10)
	m.WorstSellingProducts = WorstSellingProducts(s.Sales, s.Products, 5)
	m.ProfitPerProduct = ProfitPerProduct(s.Sales, s.Products)

	return m
}

// healthComponents holds the four health score inputs on a 0..100 scale.
// Growth and efficiency may be negative and then pull the score down.
type healthComponents struct {
	margin     float64
	growth     float64
	retention  float64
	efficiency float64
}

const (
	marginWeight     = 0.4
	growthWeight     = 0.3
	retentionWeight  = 0.2
	efficiencyWeight = 0.1
)

// healthScore combines the components into a rounded 0..100 score.
// Margin and retention are clamped to 0..100; growth and efficiency are only capped at 100.
func healthScore(c healthComponents) int {
	score := clamp(c.margin, 0, 100)*marginWeight +
		math.Min(c.growth, 100)*growthWeight +
		clamp(c.retention, 0, 100)*retentionWeight +
		math.Min(c.efficiency, 100)*efficiencyWeight
	return int(clamp(math.Round(score), 0, 100))
}

// growthTrend compares completed revenue of the trailing 7 days with the 7 days before.
// The fraction is capped at 1 and is 0 when the previous week had no revenue.
func growthTrend(sales []entity.Sale, now time.Time) float64 {
	currentStart, previousStart := weekWindows(now)

	var recent, previous float64
	for _, s := range sales {
		if !s.IsCompleted() {
			continue
		}
		switch {
		case inCurrentWeek(s.Date, currentStart):
			recent += s.TotalAmount
		case inPreviousWeek(s.Date, currentStart, previousStart):
			previous += s.TotalAmount
		}
	}

	if previous == 0 {
		return 0
	}
	return math.Min((recent-previous)/previous, 1)
}
