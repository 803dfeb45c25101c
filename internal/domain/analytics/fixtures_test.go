package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

var (
	testNow   = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	testOwner = uuid.MustParse("6f1c2a8e-3b7d-4c1e-9a52-1d0f8e7b6c4a")
)

func ago(days int) time.Time {
	return testNow.AddDate(0, 0, -days)
}

func ptr[T any](v T) *T {
	return &v
}

func newProduct(name, category string, cost, sell float64) entity.Product {
	return entity.Product{
		ID:        uuid.New(),
		UserID:    testOwner,
		Name:      name,
		Category:  category,
		CostPrice: cost,
		SellPrice: sell,
		CreatedAt: ago(100),
		UpdatedAt: ago(100),
	}
}

func newCustomer(name string, createdDaysAgo int) entity.Customer {
	return entity.Customer{
		ID:        uuid.New(),
		UserID:    testOwner,
		Name:      name,
		CreatedAt: ago(createdDaysAgo),
		UpdatedAt: ago(createdDaysAgo),
	}
}

func newSale(c entity.Customer, p entity.Product, qty int, date time.Time, status enum.SaleStatus) entity.Sale {
	return entity.Sale{
		ID:          uuid.New(),
		UserID:      testOwner,
		Date:        date,
		CustomerID:  c.ID,
		ProductID:   p.ID,
		Quantity:    qty,
		UnitPrice:   p.SellPrice,
		TotalAmount: p.SellPrice * float64(qty),
		Status:      status,
		CreatedAt:   date,
		UpdatedAt:   date,
	}
}

func completed(c entity.Customer, p entity.Product, qty int, date time.Time) entity.Sale {
	return newSale(c, p, qty, date, enum.SaleStatusCompleted)
}

func withAmount(s entity.Sale, amount float64) entity.Sale {
	s.TotalAmount = amount
	return s
}

func newCost(category string, amount float64, date time.Time) entity.Cost {
	return entity.Cost{
		ID:        uuid.New(),
		UserID:    testOwner,
		Date:      date,
		Category:  category,
		Amount:    amount,
		CreatedAt: date,
		UpdatedAt: date,
	}
}

// mixedSnapshot is a small business with three products, four customers and a
// spread of completed, pending and canceled sales
func mixedSnapshot() Snapshot {
	widget := newProduct("Widget", "Hardware", 40, 100)
	gadget := newProduct("Gadget", "Hardware", 150, 200)
	manual := newProduct("Manual", "Books", 5, 20)

	alice := newCustomer("Alice", 120)
	alice.Location = ptr("Nairobi")
	alice.TotalOrders, alice.TotalSpent, alice.LastOrderDate = 3, 500, ptr(ago(2))
	bob := newCustomer("Bob", 90)
	bob.Location = ptr("Mombasa")
	bob.TotalOrders, bob.TotalSpent, bob.LastOrderDate = 1, 200, ptr(ago(9))
	carol := newCustomer("Carol", 10)
	carol.TotalOrders, carol.TotalSpent, carol.LastOrderDate = 1, 20, ptr(ago(1))
	dave := newCustomer("Dave", 75)

	online := completed(alice, widget, 2, ago(2))
	online.SalesChannel = ptr("online")

	return Snapshot{
		Products:  []entity.Product{widget, gadget, manual},
		Customers: []entity.Customer{alice, bob, carol, dave},
		Sales: []entity.Sale{
			online,
			completed(alice, widget, 1, ago(20)),
			completed(bob, gadget, 1, ago(9)),
			completed(carol, manual, 1, ago(1)),
			newSale(dave, gadget, 4, ago(3), enum.SaleStatusPending),
			newSale(bob, widget, 1, ago(8), enum.SaleStatusCanceled),
		},
		Costs: []entity.Cost{
			newCost("Rent", 150, ago(5)),
			newCost("Marketing", 60, ago(12)),
		},
	}
}
