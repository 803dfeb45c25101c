// Package testutil holds in-memory fakes shared by service and handler tests
package testutil

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/repository"
)

// MemStore is a repository.Store backed by slices
type MemStore struct {
	mu        sync.Mutex
	Sales     []entity.Sale
	Costs     []entity.Cost
	Products  []entity.Product
	Customers []entity.Customer

	// Err, when set, is returned by every call
	Err error
	// Ranges records the date range of every ListSales call
	Ranges []repository.DateRange
}

var _ repository.Store = (*MemStore)(nil)

func owned[T any](items []T, ownerID uuid.UUID, owner func(T) uuid.UUID) []T {
	return lo.Filter(items, func(it T, _ int) bool { return owner(it) == ownerID })
}

func (m *MemStore) ListSales(ctx context.Context, ownerID uuid.UUID, r repository.DateRange) ([]entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ranges = append(m.Ranges, r)
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return lo.Filter(owned(m.Sales, ownerID, func(s entity.Sale) uuid.UUID { return s.UserID }), func(s entity.Sale, _ int) bool {
		return r.Contains(s.Date)
	}), nil
}

func (m *MemStore) ListCosts(ctx context.Context, ownerID uuid.UUID, r repository.DateRange) ([]entity.Cost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return lo.Filter(owned(m.Costs, ownerID, func(c entity.Cost) uuid.UUID { return c.UserID }), func(c entity.Cost, _ int) bool {
		return r.Contains(c.Date)
	}), nil
}

func (m *MemStore) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return owned(m.Products, ownerID, func(p entity.Product) uuid.UUID { return p.UserID }), nil
}

func (m *MemStore) ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return owned(m.Customers, ownerID, func(c entity.Customer) uuid.UUID { return c.UserID }), nil
}

func (m *MemStore) ListOwners(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	ids = append(ids, lo.Map(m.Sales, func(s entity.Sale, _ int) uuid.UUID { return s.UserID })...)
	ids = append(ids, lo.Map(m.Costs, func(c entity.Cost, _ int) uuid.UUID { return c.UserID })...)
	ids = append(ids, lo.Map(m.Products, func(p entity.Product, _ int) uuid.UUID { return p.UserID })...)
	ids = append(ids, lo.Map(m.Customers, func(c entity.Customer, _ int) uuid.UUID { return c.UserID })...)
	ids = lo.Uniq(ids)
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids, nil
}

func (m *MemStore) GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	p, ok := lo.Find(m.Products, func(p entity.Product) bool { return p.UserID == ownerID && p.ID == productID })
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemStore) GetCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	c, ok := lo.Find(m.Customers, func(c entity.Customer) bool { return c.UserID == ownerID && c.ID == customerID })
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// RecordSale appends the sale and applies the completed-sale counter update
func (m *MemStore) RecordSale(ctx context.Context, sale *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(ctx); err != nil {
		return err
	}
	m.Sales = append(m.Sales, *sale)
	if !sale.IsCompleted() {
		return nil
	}
	for i := range m.Customers {
		c := &m.Customers[i]
		if c.UserID != sale.UserID || c.ID != sale.CustomerID {
			continue
		}
		c.TotalOrders++
		c.TotalSpent += sale.TotalAmount
		if c.LastOrderDate == nil || sale.Date.After(*c.LastOrderDate) {
			d := sale.Date
			c.LastOrderDate = &d
		}
	}
	return nil
}

func (m *MemStore) Close(context.Context) error { return nil }

func (m *MemStore) fail(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	return ctx.Err()
}
