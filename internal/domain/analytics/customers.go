package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

// Cost categories counted as acquisition spend
const (
	CostCategoryMarketing = "Marketing"
	CostCategorySales     = "Sales"
)

const minLifespanYears = 1.0 / 365

// CustomerLifetimeValue is average completed sale value * average purchase frequency *
// average customer lifespan in years.
//
// A customer's lifespan runs from the date of their earliest sale record to their
// last_order_date, with a floor of one day. Customers without any sale record do
// not contribute a lifespan sample.
func CustomerLifetimeValue(sales []entity.Sale, customers []entity.Customer) float64 {
	completed := completedSales(sales)
	if len(completed) == 0 || len(customers) == 0 {
		return 0
	}

	aov := sumSales(completed) / float64(len(completed))
	orders := lo.SumBy(customers, func(c entity.Customer) int { return c.TotalOrders })
	frequency := float64(orders) / float64(len(customers))

	firstSale := make(map[uuid.UUID]time.Time)
	for _, s := range sales {
		if first, ok := firstSale[s.CustomerID]; !ok || s.Date.Before(first) {
			firstSale[s.CustomerID] = s.Date
		}
	}

	lifespans := make([]float64, 0, len(customers))
	for _, c := range customers {
		first, ok := firstSale[c.ID]
		if !ok {
			continue
		}
		if c.LastOrderDate == nil {
			lifespans = append(lifespans, minLifespanYears)
			continue
		}
		days := c.LastOrderDate.Sub(first).Hours() / 24
		if days <= 0 {
			lifespans = append(lifespans, minLifespanYears)
			continue
		}
		lifespans = append(lifespans, days/365)
	}
	if len(lifespans) == 0 {
		return 0
	}

	avgLifespan := lo.Sum(lifespans) / float64(len(lifespans))
	clv := aov * frequency * avgLifespan
	if math.IsNaN(clv) || math.IsInf(clv, 0) {
		return 0
	}
	return clv
}

// CustomerAcquisitionCost divides Marketing and Sales costs by the number of
// customers created in the trailing 30 days
func CustomerAcquisitionCost(costs []entity.Cost, customers []entity.Customer, now time.Time) float64 {
	spend := lo.SumBy(costs, func(c entity.Cost) float64 {
		if c.Category == CostCategoryMarketing || c.Category == CostCategorySales {
			return c.Amount
		}
		return 0
	})

	cutoff := daysAgo(now, 30)
	acquired := lo.CountBy(customers, func(c entity.Customer) bool { return c.CreatedAt.After(cutoff) })
	return ratio(spend, float64(acquired))
}

// ChurnRate is the share of customers created more than 30 days ago that have not
// ordered within the last 30 days
func ChurnRate(customers []entity.Customer, now time.Time) float64 {
	cutoff := daysAgo(now, 30)
	established := lo.Filter(customers, func(c entity.Customer, _ int) bool {
		return c.CreatedAt.Before(cutoff)
	})
	if len(established) == 0 {
		return 0
	}

	churned := lo.CountBy(established, func(c entity.Customer) bool { return c.InactiveSince(cutoff) })
	return float64(churned) / float64(len(established)) * 100
}

// RetentionRate is (customers at period end - customers acquired during the period) /
// customers at period start, where the period runs from 60 to 30 days ago
func RetentionRate(customers []entity.Customer, now time.Time) float64 {
	periodStart, periodEnd := daysAgo(now, 60), daysAgo(now, 30)

	atStart := lo.CountBy(customers, func(c entity.Customer) bool { return c.CreatedAt.Before(periodStart) })
	if atStart == 0 {
		return 0
	}
	atEnd := lo.CountBy(customers, func(c entity.Customer) bool { return c.CreatedAt.Before(periodEnd) })
	acquired := lo.CountBy(customers, func(c entity.Customer) bool {
		return !c.CreatedAt.Before(periodStart) && c.CreatedAt.Before(periodEnd)
	})

	retained := atEnd - acquired
	if retained < 0 {
		return 0
	}
	return float64(retained) / float64(atStart) * 100
}

// ReconcileCustomers returns copies of the customers whose order counters are rebuilt
// from the sales ledger: total_orders, total_spent and last_order_date from completed
// sales, canceled_orders from canceled ones.
func ReconcileCustomers(customers []entity.Customer, sales []entity.Sale) []entity.Customer {
	type tally struct {
		orders   int
		spent    float64
		canceled int
		last     *time.Time
	}
	tallies := make(map[uuid.UUID]*tally)
	for _, s := range sales {
		t, ok := tallies[s.CustomerID]
		if !ok {
			t = &tally{}
			tallies[s.CustomerID] = t
		}
		switch {
		case s.IsCompleted():
			t.orders++
			t.spent += s.TotalAmount
			if t.last == nil || s.Date.After(*t.last) {
				d := s.Date
				t.last = &d
			}
		case s.Status == enum.SaleStatusCanceled:
			t.canceled++
		}
	}

	out := make([]entity.Customer, len(customers))
	for i, c := range customers {
		t, ok := tallies[c.ID]
		if !ok {
			t = &tally{}
		}
		c.TotalOrders = t.orders
		c.TotalSpent = t.spent
		c.CanceledOrders = t.canceled
		c.LastOrderDate = t.last
		out[i] = c
	}
	return out
}

// CustomerSegments groups customers for the segmentation view
type CustomerSegments struct {
	HighSpenders   []entity.Customer            `json:"high_spenders"`
	FrequentBuyers []entity.Customer            `json:"frequent_buyers"`
	OneTimeBuyers  []entity.Customer            `json:"one_time_buyers"`
	NewCustomers   []entity.Customer            `json:"new_customers"`
	ByAge          map[string][]entity.Customer `json:"by_age"`
	ByLocation     map[string]int               `json:"by_location"`
}

// Segment thresholds
const (
	HighSpenderThreshold   = 10000
	FrequentBuyerThreshold = 5
)

var ageBuckets = []struct {
	label    string
	min, max int
}{
	{"18-25", 18, 25},
	{"26-35", 26, 35},
	{"36-45", 36, 45},
	{"46+", 46, math.MaxInt},
}

// SegmentCustomers splits customers by spend, frequency, recency, age and location
func SegmentCustomers(customers []entity.Customer, now time.Time) CustomerSegments {
	seg := CustomerSegments{
		HighSpenders: lo.Filter(customers, func(c entity.Customer, _ int) bool {
			return c.TotalSpent > HighSpenderThreshold
		}),
		FrequentBuyers: lo.Filter(customers, func(c entity.Customer, _ int) bool {
			return c.TotalOrders > FrequentBuyerThreshold
		}),
		OneTimeBuyers: lo.Filter(customers, func(c entity.Customer, _ int) bool {
			return c.TotalOrders == 1
		}),
		NewCustomers: lo.Filter(customers, func(c entity.Customer, _ int) bool {
			return c.CreatedAt.After(daysAgo(now, 30))
		}),
		ByAge:      make(map[string][]entity.Customer, len(ageBuckets)),
		ByLocation: make(map[string]int),
	}
	slices.SortStableFunc(seg.HighSpenders, func(a, b entity.Customer) int {
		return cmp.Compare(b.TotalSpent, a.TotalSpent)
	})
	slices.SortStableFunc(seg.FrequentBuyers, func(a, b entity.Customer) int {
		return cmp.Compare(b.TotalOrders, a.TotalOrders)
	})

	for _, b := range ageBuckets {
		seg.ByAge[b.label] = lo.Filter(customers, func(c entity.Customer, _ int) bool {
			return c.Age != nil && *c.Age >= b.min && *c.Age <= b.max
		})
	}
	for _, c := range customers {
		if c.Location != nil && *c.Location != "" {
			seg.ByLocation[*c.Location]++
		}
	}
	return seg
}
