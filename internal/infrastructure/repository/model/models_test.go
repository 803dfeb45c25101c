package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSaleFromEntity_RoundsMoney(t *testing.T) {
	s := entity.Sale{
		ID:          uuid.New(),
		Quantity:    3,
		UnitPrice:   33.333,
		TotalAmount: 99.999,
		Status:      enum.SaleStatusCompleted,
		Date:        time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	row := SaleFromEntity(s)
	require.Equal(t, "33.33", row.UnitPrice.StringFixed(2))
	require.Equal(t, "100.00", row.TotalAmount.StringFixed(2))

	back := row.ToEntity()
	require.Equal(t, s.ID, back.ID)
	require.Equal(t, 100.0, back.TotalAmount)
	require.True(t, back.IsCompleted())
}

func TestProduct_ToEntity(t *testing.T) {
	p := Product{
		ID:        uuid.New(),
		Name:      "Widget",
		CostPrice: decimal.RequireFromString("12.50"),
		SellPrice: decimal.RequireFromString("20.00"),
	}
	e := p.ToEntity()
	require.Equal(t, 12.5, e.CostPrice)
	require.Equal(t, 20.0, e.SellPrice)
}

func TestToEntities(t *testing.T) {
	rows := []Cost{{Category: "Rent", Amount: decimal.NewFromInt(10)}, {Category: "Ads", Amount: decimal.NewFromInt(5)}}
	costs := ToEntities(rows, Cost.ToEntity)
	require.Len(t, costs, 2)
	require.Equal(t, "Ads", costs[1].Category)

	require.NotNil(t, ToEntities([]Cost(nil), Cost.ToEntity))
}
