// Package analytics derives dashboard metrics, trends, anomaly alerts and coach
// insights from the raw record collections of one owner.
//
// Every function in this package is pure: it reads the collections it is given,
// never mutates them and never returns an error. Degenerate inputs (empty
// collections, zero denominators, dangling references) resolve to zero values.
// The only non-deterministic input is the now argument.
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
)

const day = 24 * time.Hour

// Snapshot is the set of record collections a single computation reads
type Snapshot struct {
	Sales     []entity.Sale     `json:"sales"`
	Costs     []entity.Cost     `json:"costs"`
	Products  []entity.Product  `json:"products"`
	Customers []entity.Customer `json:"customers"`
}

func completedSales(sales []entity.Sale) []entity.Sale {
	return lo.Filter(sales, func(s entity.Sale, _ int) bool {
		return s.IsCompleted()
	})
}

func sumSales(sales []entity.Sale) float64 {
	return lo.SumBy(sales, func(s entity.Sale) float64 { return s.TotalAmount })
}

func sumCosts(costs []entity.Cost) float64 {
	return lo.SumBy(costs, func(c entity.Cost) float64 { return c.Amount })
}

func indexProducts(products []entity.Product) map[uuid.UUID]entity.Product {
	return lo.KeyBy(products, func(p entity.Product) uuid.UUID { return p.ID })
}

func countDistinctCustomers(sales []entity.Sale) int {
	return len(lo.Uniq(lo.Map(sales, func(s entity.Sale, _ int) uuid.UUID { return s.CustomerID })))
}

// ratio returns num/den, or 0 when den is 0
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(num, den float64) float64 {
	return ratio(num, den) * 100
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func daysAgo(now time.Time, n int) time.Time {
	return now.Add(-time.Duration(n) * day)
}

// weekWindows returns the boundaries shared by the week-over-week comparisons:
// current covers dates >= currentStart, previous covers [previousStart, currentStart).
func weekWindows(now time.Time) (currentStart, previousStart time.Time) {
	return daysAgo(now, 7), daysAgo(now, 14)
}

func inCurrentWeek(t, currentStart time.Time) bool {
	return !t.Before(currentStart)
}

func inPreviousWeek(t, currentStart, previousStart time.Time) bool {
	return !t.Before(previousStart) && t.Before(currentStart)
}

// revenueTotal pairs a product id with the completed revenue it generated
type revenueTotal struct {
	productID uuid.UUID
	revenue   float64
	count     int
}

// revenueByProduct sums completed revenue per product id in first-seen order.
// Product ids missing from the catalog are kept.
func revenueByProduct(sales []entity.Sale) []revenueTotal {
	totals := make([]revenueTotal, 0)
	pos := make(map[uuid.UUID]int)
	for _, s := range sales {
		if !s.IsCompleted() {
			continue
		}
		i, ok := pos[s.ProductID]
		if !ok {
			i = len(totals)
			pos[s.ProductID] = i
			totals = append(totals, revenueTotal{productID: s.ProductID})
		}
		totals[i].revenue += s.TotalAmount
		totals[i].count++
	}
	return totals
}
