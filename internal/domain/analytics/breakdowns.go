package analytics

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
)

// ProductProfit is the realized profit of one product over its completed sales
type ProductProfit struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Profit    float64   `json:"profit"`
}

// DailyRevenuePoint is the completed revenue booked on one calendar day
type DailyRevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// TotalUnitsSold sums quantities of completed sales
func TotalUnitsSold(sales []entity.Sale) int {
	return lo.SumBy(completedSales(sales), func(s entity.Sale) int { return s.Quantity })
}

// SalesByCategory sums completed revenue by the sold product's category.
// Sales of products missing from the catalog are skipped.
func SalesByCategory(sales []entity.Sale, products []entity.Product) map[string]float64 {
	byID := indexProducts(products)
	out := make(map[string]float64)
	for _, s := range completedSales(sales) {
		if p, ok := byID[s.ProductID]; ok {
			out[p.Category] += s.TotalAmount
		}
	}
	return out
}

// SalesByChannel sums completed revenue by sales channel. Unlabelled sales are skipped.
func SalesByChannel(sales []entity.Sale) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range completedSales(sales) {
		if ch := s.Channel(); ch != "" {
			out[ch] += s.TotalAmount
		}
	}
	return out
}

// SalesByRegion sums completed revenue by the buying customer's location
func SalesByRegion(sales []entity.Sale, customers []entity.Customer) map[string]float64 {
	byID := lo.KeyBy(customers, func(c entity.Customer) uuid.UUID { return c.ID })
	out := make(map[string]float64)
	for _, s := range completedSales(sales) {
		c, ok := byID[s.CustomerID]
		if !ok || c.Location == nil || *c.Location == "" {
			continue
		}
		out[*c.Location] += s.TotalAmount
	}
	return out
}

// ExpensesByCategory sums cost amounts by cost category
func ExpensesByCategory(costs []entity.Cost) map[string]float64 {
	out := make(map[string]float64)
	for _, c := range costs {
		out[c.Category] += c.Amount
	}
	return out
}

// TopCustomers returns up to limit customers ordered by total spent, highest first
func TopCustomers(customers []entity.Customer, limit int) []entity.Customer {
	sorted := append(make([]entity.Customer, 0, len(customers)), customers...)
	slices.SortStableFunc(sorted, func(a, b entity.Customer) int {
		return cmp.Compare(b.TotalSpent, a.TotalSpent)
	})
	return truncate(sorted, limit)
}

// WorstSellingProducts returns up to limit catalog products ordered by completed
// revenue, lowest first. Products without sales sort before everything else.
func WorstSellingProducts(sales []entity.Sale, products []entity.Product, limit int) []entity.Product {
	revenue := make(map[uuid.UUID]float64)
	for _, t := range revenueByProduct(sales) {
		revenue[t.productID] = t.revenue
	}

	sorted := append(make([]entity.Product, 0, len(products)), products...)
	slices.SortStableFunc(sorted, func(a, b entity.Product) int {
		return cmp.Compare(revenue[a.ID], revenue[b.ID])
	})
	return truncate(sorted, limit)
}

// ProfitPerProduct returns (unit price - cost price) * quantity summed per product over
// completed sales, highest profit first. Products without completed sales are omitted.
func ProfitPerProduct(sales []entity.Sale, products []entity.Product) []ProductProfit {
	byID := indexProducts(products)
	out := make([]ProductProfit, 0)
	pos := make(map[uuid.UUID]int)

	for _, s := range completedSales(sales) {
		p, ok := byID[s.ProductID]
		if !ok {
			continue
		}
		i, seen := pos[p.ID]
		if !seen {
			i = len(out)
			pos[p.ID] = i
			out = append(out, ProductProfit{ProductID: p.ID, Name: p.Name})
		}
		out[i].Profit += (s.UnitPrice - p.CostPrice) * float64(s.Quantity)
	}

	slices.SortStableFunc(out, func(a, b ProductProfit) int {
		return cmp.Compare(b.Profit, a.Profit)
	})
	return out
}

// topProduct returns the catalog product with the highest completed revenue.
// Ties go to the product sold first. Nil when there are no completed sales or
// the winning id is not in the catalog.
func topProduct(sales []entity.Sale, products map[uuid.UUID]entity.Product) *entity.Product {
	totals := revenueByProduct(sales)
	if len(totals) == 0 {
		return nil
	}
	best := totals[0]
	for _, t := range totals[1:] {
		if t.revenue > best.revenue {
			best = t
		}
	}
	p, ok := products[best.productID]
	if !ok {
		return nil
	}
	return &p
}

// BestSellingProduct returns the product with strictly positive maximal completed revenue
func BestSellingProduct(sales []entity.Sale, products []entity.Product) *entity.Product {
	var (
		bestID  uuid.UUID
		bestRev float64
		found   bool
	)
	for _, t := range revenueByProduct(sales) {
		if t.revenue > bestRev {
			bestID, bestRev, found = t.productID, t.revenue, true
		}
	}
	if !found {
		return nil
	}
	p, ok := indexProducts(products)[bestID]
	if !ok {
		return nil
	}
	return &p
}

// DailyRevenue groups completed revenue by calendar day, oldest day first
func DailyRevenue(sales []entity.Sale) []DailyRevenuePoint {
	byDay := make(map[string]float64)
	for _, s := range completedSales(sales) {
		byDay[s.Date.Format("2006-01-02")] += s.TotalAmount
	}

	days := lo.Keys(byDay)
	slices.Sort(days)
	return lo.Map(days, func(d string, _ int) DailyRevenuePoint {
		return DailyRevenuePoint{Date: d, Revenue: byDay[d]}
	})
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
