package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

// Shop is a seeded single-owner store
type Shop struct {
	Store    *MemStore
	Owner    uuid.UUID
	Product  entity.Product
	Customer entity.Customer
}

// NewShop seeds one product, one customer, three completed sales (1, 2 and 40
// days before now, 400 in total) and one 50 Rent cost 3 days before now
func NewShop(now time.Time) *Shop {
	owner := uuid.New()
	ago := func(days int) time.Time { return now.AddDate(0, 0, -days) }
	last := ago(1)

	product := entity.Product{
		ID: uuid.New(), UserID: owner, Name: "Widget", Category: "Hardware",
		CostPrice: 40, SellPrice: 100, CreatedAt: ago(120),
	}
	customer := entity.Customer{
		ID: uuid.New(), UserID: owner, Name: "Alice",
		TotalOrders: 3, TotalSpent: 400, LastOrderDate: &last, CreatedAt: ago(90),
	}
	sale := func(days, qty int) entity.Sale {
		return entity.Sale{
			ID: uuid.New(), UserID: owner, Date: ago(days),
			CustomerID: customer.ID, ProductID: product.ID,
			Quantity: qty, UnitPrice: 100, TotalAmount: float64(qty) * 100,
			Status: enum.SaleStatusCompleted,
		}
	}

	return &Shop{
		Store: &MemStore{
			Sales:     []entity.Sale{sale(1, 1), sale(2, 1), sale(40, 2)},
			Costs:     []entity.Cost{{ID: uuid.New(), UserID: owner, Date: ago(3), Category: "Rent", Amount: 50}},
			Products:  []entity.Product{product},
			Customers: []entity.Customer{customer},
		},
		Owner:    owner,
		Product:  product,
		Customer: customer,
	}
}
