package analytics

import (
	"testing"

	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
)

func TestBestSellingProduct(t *testing.T) {
	widget := newProduct("Widget", "Hardware", 40, 100)
	gadget := newProduct("Gadget", "Hardware", 10, 30)
	c := newCustomer("Alice", 30)
	products := []entity.Product{widget, gadget}

	t.Run("highest completed revenue wins", func(t *testing.T) {
		sales := []entity.Sale{
			completed(c, gadget, 2, ago(3)),
			completed(c, widget, 1, ago(2)),
			newSale(c, gadget, 50, ago(1), enum.SaleStatusPending),
		}
		best := BestSellingProduct(sales, products)
		require.NotNil(t, best)
		require.Equal(t, widget.ID, best.ID)
	})

	t.Run("zero revenue only yields nil", func(t *testing.T) {
		sales := []entity.Sale{withAmount(completed(c, widget, 1, ago(1)), 0)}
		require.Nil(t, BestSellingProduct(sales, products))

		top := topProduct(sales, indexProducts(products))
		require.NotNil(t, top)
		require.Equal(t, widget.ID, top.ID)
	})

	t.Run("no completed sales", func(t *testing.T) {
		sales := []entity.Sale{newSale(c, widget, 1, ago(1), enum.SaleStatusCanceled)}
		require.Nil(t, BestSellingProduct(sales, products))
		require.Nil(t, BestSellingProduct(nil, products))
	})

	t.Run("unknown product", func(t *testing.T) {
		sales := []entity.Sale{completed(c, widget, 1, ago(1))}
		require.Nil(t, BestSellingProduct(sales, []entity.Product{gadget}))
	})
}

func TestComputeMetrics_BestSellingProduct(t *testing.T) {
	p := newProduct("Widget", "Hardware", 40, 100)
	c := newCustomer("Alice", 30)

	m := ComputeMetrics(Snapshot{
		Products:  []entity.Product{p},
		Customers: []entity.Customer{c},
		Sales:     []entity.Sale{completed(c, p, 2, ago(1))},
	}, testNow)
	require.NotNil(t, m.BestSellingProduct)
	require.Equal(t, p.ID, m.BestSellingProduct.ID)

	free := ComputeMetrics(Snapshot{
		Products:  []entity.Product{p},
		Customers: []entity.Customer{c},
		Sales:     []entity.Sale{withAmount(completed(c, p, 2, ago(1)), 0)},
	}, testNow)
	require.NotNil(t, free.TopProduct)
	require.Nil(t, free.BestSellingProduct)
}
