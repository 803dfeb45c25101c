package analytics

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

// AIInsight is a categorized coaching recommendation
type AIInsight struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    enum.InsightCategory `json:"category"`
	Impact      enum.Impact          `json:"impact"`
}

// insightInput carries the aggregates every insight rule shares.
// They are recomputed here rather than taken from DashboardMetrics.
type insightInput struct {
	snapshot     Snapshot
	now          time.Time
	completed    []entity.Sale
	revenue      float64
	expenses     float64
	netProfit    float64
	averageOrder float64
}

func newInsightInput(s Snapshot, now time.Time) insightInput {
	in := insightInput{
		snapshot:  s,
		now:       now,
		completed: completedSales(s.Sales),
		expenses:  sumCosts(s.Costs),
	}
	in.revenue = sumSales(in.completed)
	in.netProfit = in.revenue - in.expenses
	in.averageOrder = ratio(in.revenue, float64(len(in.completed)))
	return in
}

// insightRule produces at most one insight. generate returns false when the rule
// does not apply.
type insightRule struct {
	name     string
	generate func(in insightInput) (AIInsight, bool)
}

// insightRules is evaluated in declaration order and every match is kept
var insightRules = []insightRule{
	{name: "re-engagement", generate: reengagementInsight},
	{name: "premium-upsell", generate: premiumUpsellInsight},
	{name: "high-expense-ratio", generate: expenseRatioInsight},
	{name: "profitability-crisis", generate: profitabilityInsight},
	{name: "revenue-concentration", generate: concentrationInsight},
	{name: "low-margin-products", generate: lowMarginInsight},
	{name: "cost-category", generate: costCategoryInsight},
	{name: "high-value-transactions", generate: highValueSalesInsight},
	{name: "growth-strategy", generate: growthStrategyInsight},
}

// GenerateInsights returns every insight whose rule matches the snapshot
func GenerateInsights(s Snapshot, now time.Time) []AIInsight {
	in := newInsightInput(s, now)

	insights := make([]AIInsight, 0)
	for _, rule := range insightRules {
		if insight, ok := rule.generate(in); ok {
			insights = append(insights, insight)
		}
	}
	return insights
}

func reengagementInsight(in insightInput) (AIInsight, bool) {
	cutoff := daysAgo(in.now, 30)
	inactive := lo.CountBy(in.snapshot.Customers, func(c entity.Customer) bool { return c.InactiveSince(cutoff) })
	if inactive == 0 {
		return AIInsight{}, false
	}
	return AIInsight{
		Title:       "Customer Re-engagement Opportunity",
		Description: fmt.Sprintf("You have %d inactive customers. Running a targeted re-engagement campaign could recover dormant revenue.", inactive),
		Category:    enum.InsightOpportunity,
		Impact:      enum.ImpactHigh,
	}, true
}

func premiumUpsellInsight(in insightInput) (AIInsight, bool) {
	if len(in.snapshot.Products) <= 1 {
		return AIInsight{}, false
	}
	highValue := lo.CountBy(in.snapshot.Customers, func(c entity.Customer) bool {
		return c.TotalSpent > 0 && c.TotalSpent > in.averageOrder*5
	})
	if highValue == 0 {
		return AIInsight{}, false
	}
	return AIInsight{
		Title:       "Premium Product Upsell",
		Description: fmt.Sprintf("%d high-value customers are ideal for premium product recommendations.", highValue),
		Category:    enum.InsightOpportunity,
		Impact:      enum.ImpactMedium,
	}, true
}

func expenseRatioInsight(in insightInput) (AIInsight, bool) {
	if in.revenue <= 0 {
		return AIInsight{}, false
	}
	expenseRatio := in.expenses / in.revenue
	if expenseRatio <= 0.6 {
		return AIInsight{}, false
	}
	return AIInsight{
		Title:       "High Expense Ratio Alert",
		Description: fmt.Sprintf("Expenses are %.1f%% of revenue. Target is <50%%. Review cost structure immediately.", expenseRatio*100),
		Category:    enum.InsightRisk,
		Impact:      enum.ImpactHigh,
	}, true
}

// profitabilityInsight uses revenue minus expenses, cost of goods is not deducted
func profitabilityInsight(in insightInput) (AIInsight, bool) {
	if in.netProfit >= 0 {
		return AIInsight{}, false
	}
	return AIInsight{
		Title:       "Profitability Crisis",
		Description: "Your business is operating at a loss. Reduce expenses or increase prices urgently.",
		Category:    enum.InsightRisk,
		Impact:      enum.ImpactHigh,
	}, true
}

func concentrationInsight(in insightInput) (AIInsight, bool) {
	if len(in.snapshot.Products) == 0 {
		return AIInsight{}, false
	}
	totals := revenueByProduct(in.completed)
	total := lo.SumBy(totals, func(t revenueTotal) float64 { return t.revenue })
	if total <= 0 {
		return AIInsight{}, false
	}
	top := lo.MaxBy(totals, func(a, b revenueTotal) bool { return a.revenue > b.revenue })

	concentration := top.revenue / total * 100
	if concentration <= 70 {
		return AIInsight{}, false
	}
	return AIInsight{
		Title:       "Revenue Concentration Risk",
		Description: fmt.Sprintf("%.0f%% of revenue comes from one product. Diversify to reduce risk.", concentration),
		Category:    enum.InsightRisk,
		Impact:      enum.ImpactMedium,
	}, true
}

// lowMarginInsight counts products with a margin under 15%. A free product
// that still has a cost counts as low margin, a free product at no cost does not.
func lowMarginInsight(in insightInput) (AIInsight, bool) {
	lowMargin := lo.CountBy(in.snapshot.Products, func(p entity.Product) bool {
		margin, ok := p.MarginPercent()
		if !ok {
			return p.CostPrice > 0
		}
		return margin < 15
	})
	if lowMargin == 0 {
		return AIInsight{}, false
	}
	return AIInsight{
		Title:       "Low Margin Product Review",
		Description: fmt.Sprintf("%d products have margins below 15%%. Consider price increases or cost reduction.", lowMargin),
		Category:    enum.InsightOptimization,
		Impact:      enum.ImpactMedium,
	}, true
}

func costCategoryInsight(in insightInput) (AIInsight, bool) {
	costs := in.snapshot.Costs
	if len(costs) <= 10 {
		return AIInsight{}, false
	}

	// first-seen order so that ties resolve to the earliest category
	var categories []string
	byCategory := make(map[string]float64)
	for _, c := range costs {
		if _, ok := byCategory[c.Category]; !ok {
			categories = append(categories, c.Category)
		}
		byCategory[c.Category] += c.Amount
	}
	top := lo.MaxBy(categories, func(a, b string) bool { return byCategory[a] > byCategory[b] })
	amount := byCategory[top]

	if amount <= in.revenue*0.3 {
		return AIInsight{}, false
	}

	description := fmt.Sprintf("%s expenses are %.1f%% of revenue. Review for reduction opportunities.", top, amount/in.revenue*100)
	if in.revenue <= 0 {
		description = fmt.Sprintf("%s expenses total %.2f with no revenue recorded. Review for reduction opportunities.", top, amount)
	}
	return AIInsight{
		Title:       "Cost Category Optimization",
		Description: description,
		Category:    enum.InsightOptimization,
		Impact:      enum.ImpactMedium,
	}, true
}

func highValueSalesInsight(in insightInput) (AIInsight, bool) {
	if len(in.completed) == 0 {
		return AIInsight{}, false
	}
	highValue := lo.CountBy(in.completed, func(s entity.Sale) bool { return s.TotalAmount > in.averageOrder*1.5 })

	share := float64(highValue) / float64(len(in.completed))
	if highValue == 0 || share <= 0.1 {
		return AIInsight{}, false
	}
	return AIInsight{
		Title:       "Focus on High-Value Transactions",
		Description: fmt.Sprintf("%.0f%% of sales are high-value. Optimize for these customers.", share*100),
		Category:    enum.InsightStrategy,
		Impact:      enum.ImpactHigh,
	}, true
}

func growthStrategyInsight(in insightInput) (AIInsight, bool) {
	switch n := len(in.completed); {
	case n > 50:
		return AIInsight{
			Title:       "Scale Growth Strategy",
			Description: "Your sales volume is healthy. Consider scaling marketing efforts to accelerate growth.",
			Category:    enum.InsightStrategy,
			Impact:      enum.ImpactHigh,
		}, true
	case n > 10:
		return AIInsight{
			Title:       "Build Sales Foundation",
			Description: "Establish customer base expansion while optimizing current operations for profitability.",
			Category:    enum.InsightStrategy,
			Impact:      enum.ImpactMedium,
		}, true
	}
	return AIInsight{}, false
}
