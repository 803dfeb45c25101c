package request

import "time"

// RecordSaleRequest represents a sale recording request
type RecordSaleRequest struct {
	CustomerID   string     `json:"customer_id" binding:"required,uuid"`
	ProductID    string     `json:"product_id" binding:"required,uuid"`
	Quantity     int        `json:"quantity" binding:"required,min=1"`
	Date         *time.Time `json:"date"`
	Status       string     `json:"status" binding:"omitempty,oneof=completed pending canceled"`
	SalesChannel *string    `json:"sales_channel" binding:"omitempty,max=100"`
}
