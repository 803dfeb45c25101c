package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
)

// Sale represents a single sale line: one product sold to one customer
type Sale struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Date         time.Time       `json:"date"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    float64         `json:"unit_price"` // Snapshot of the product sell price
	TotalAmount  float64         `json:"total_amount"`
	Status       enum.SaleStatus `json:"status"`
	SalesChannel *string         `json:"sales_channel,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsCompleted reports whether the sale counts toward revenue
func (s Sale) IsCompleted() bool {
	return s.Status == enum.SaleStatusCompleted
}

// Channel returns the sales channel label or "" when unset
func (s Sale) Channel() string {
	if s.SalesChannel == nil {
		return ""
	}
	return *s.SalesChannel
}
