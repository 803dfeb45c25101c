package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

// DateRange limits sales and costs by their date (day granularity, both ends inclusive).
// An unbounded range returns every record.
type DateRange struct {
	From    time.Time
	To      time.Time
	Bounded bool
}

// Unbounded returns a range that applies no date filter
func Unbounded() DateRange {
	return DateRange{}
}

// RangeFor resolves a time frame into the date range used to query the store
func RangeFor(tf enum.TimeFrame, now time.Time) DateRange {
	start, bounded := tf.Start(now)
	if !bounded {
		return Unbounded()
	}
	return DateRange{From: truncateDay(start), To: truncateDay(now), Bounded: true}
}

// EndExclusive returns the first instant after the last included day
func (r DateRange) EndExclusive() time.Time {
	return r.To.AddDate(0, 0, 1)
}

// Contains reports whether t falls on a day inside the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.Bounded {
		return true
	}
	return !t.Before(r.From) && t.Before(r.EndExclusive())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RecordRepository is the read side of the record store. Every query is scoped to one owner.
type RecordRepository interface {
	// ListSales returns the owner's sales dated inside the range
	ListSales(ctx context.Context, ownerID uuid.UUID, r DateRange) ([]entity.Sale, error)

	// ListCosts returns the owner's costs dated inside the range
	ListCosts(ctx context.Context, ownerID uuid.UUID, r DateRange) ([]entity.Cost, error)

	// ListProducts returns the owner's full catalog
	ListProducts(ctx context.Context, ownerID uuid.UUID) ([]entity.Product, error)

	// ListCustomers returns every customer of the owner
	ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]entity.Customer, error)

	// ListOwners returns the distinct owners that have at least one product, customer or sale
	ListOwners(ctx context.Context) ([]uuid.UUID, error)
}

// SaleRecorder is the write path that keeps customer counters in step with the ledger
type SaleRecorder interface {
	// GetProduct returns nil, nil when the product does not exist for the owner
	GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*entity.Product, error)

	// GetCustomer returns nil, nil when the customer does not exist for the owner
	GetCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (*entity.Customer, error)

	// RecordSale persists the sale. When the sale is completed the customer's
	// total_orders, total_spent and last_order_date are updated atomically with it.
	RecordSale(ctx context.Context, sale *entity.Sale) error
}

// Store is implemented by every record store backend
type Store interface {
	RecordRepository
	SaleRecorder
	Close(ctx context.Context) error
}
