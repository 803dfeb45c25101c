package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a customer of the business.
// TotalOrders, TotalSpent and LastOrderDate are denormalized counters maintained
// when a completed sale is recorded; analytics treats them as snapshots.
type Customer struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Name           string     `json:"name"`
	Phone          *string    `json:"phone,omitempty"`
	Address        *string    `json:"address,omitempty"`
	Age            *int       `json:"age,omitempty"`
	Location       *string    `json:"location,omitempty"`
	TotalOrders    int        `json:"total_orders"`
	TotalSpent     float64    `json:"total_spent"`
	LastOrderDate  *time.Time `json:"last_order_date,omitempty"`
	CanceledOrders int        `json:"canceled_orders"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// InactiveSince reports whether the customer never ordered or last ordered before cutoff
func (c Customer) InactiveSince(cutoff time.Time) bool {
	return c.LastOrderDate == nil || c.LastOrderDate.Before(cutoff)
}
