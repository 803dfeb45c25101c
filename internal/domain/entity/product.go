package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item owned by a user
type Product struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CostPrice float64   `json:"cost_price"`
	SellPrice float64   `json:"sell_price"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarginPercent returns (sell - cost) / sell * 100. ok is false when the sell price is zero.
func (p Product) MarginPercent() (margin float64, ok bool) {
	if p.SellPrice == 0 {
		return 0, false
	}
	return (p.SellPrice - p.CostPrice) / p.SellPrice * 100, true
}
