// Package model holds the gorm row types of the record tables and their
// conversion to domain entities. Money is stored as numeric(14,2).
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	Category  string          `gorm:"index"`
	CostPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SellPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Product) TableName() string { return "products" }

type Customer struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name           string          `gorm:"not null"`
	Phone          *string
	Address        *string
	Age            *int
	Location       *string
	TotalOrders    int             `gorm:"not null;default:0"`
	TotalSpent     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LastOrderDate  *time.Time
	CanceledOrders int `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Customer) TableName() string { return "customers" }

type Sale struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID       `gorm:"type:uuid;index:idx_sales_owner_date;not null"`
	Date         time.Time       `gorm:"index:idx_sales_owner_date;not null"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status       enum.SaleStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	SalesChannel *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Sale) TableName() string { return "sales" }

type Cost struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID       `gorm:"type:uuid;index:idx_costs_owner_date;not null"`
	Date        time.Time       `gorm:"index:idx_costs_owner_date;not null"`
	Category    string          `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Cost) TableName() string { return "costs" }

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func (p Product) ToEntity() entity.Product {
	return entity.Product{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		Category:  p.Category,
		CostPrice: money(p.CostPrice),
		SellPrice: money(p.SellPrice),
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c Customer) ToEntity() entity.Customer {
	return entity.Customer{
		ID:             c.ID,
		UserID:         c.UserID,
		Name:           c.Name,
		Phone:          c.Phone,
		Address:        c.Address,
		Age:            c.Age,
		Location:       c.Location,
		TotalOrders:    c.TotalOrders,
		TotalSpent:     money(c.TotalSpent),
		LastOrderDate:  c.LastOrderDate,
		CanceledOrders: c.CanceledOrders,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (s Sale) ToEntity() entity.Sale {
	return entity.Sale{
		ID:           s.ID,
		UserID:       s.UserID,
		Date:         s.Date,
		CustomerID:   s.CustomerID,
		ProductID:    s.ProductID,
		Quantity:     s.Quantity,
		UnitPrice:    money(s.UnitPrice),
		TotalAmount:  money(s.TotalAmount),
		Status:       s.Status,
		SalesChannel: s.SalesChannel,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SaleFromEntity converts a domain sale into a row, rounding money to cents
func SaleFromEntity(s entity.Sale) Sale {
	return Sale{
		ID:           s.ID,
		UserID:       s.UserID,
		Date:         s.Date,
		CustomerID:   s.CustomerID,
		ProductID:    s.ProductID,
		Quantity:     s.Quantity,
		UnitPrice:    decimal.NewFromFloat(s.UnitPrice).Round(2),
		TotalAmount:  decimal.NewFromFloat(s.TotalAmount).Round(2),
		Status:       s.Status,
		SalesChannel: s.SalesChannel,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (c Cost) ToEntity() entity.Cost {
	return entity.Cost{
		ID:          c.ID,
		UserID:      c.UserID,
		Date:        c.Date,
		Category:    c.Category,
		Amount:      money(c.Amount),
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToEntities converts a slice of rows with the given converter
func ToEntities[M any, E any](rows []M, convert func(M) E) []E {
	out := make([]E, 0, len(rows))
	for _, r := range rows {
		out = append(out, convert(r))
	}
	return out
}
