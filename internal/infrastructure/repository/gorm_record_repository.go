package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	domainRepo "github.com/sangkips/bizcoach-api/internal/domain/repository"
	"github.com/sangkips/bizcoach-api/internal/infrastructure/database"
	"github.com/sangkips/bizcoach-api/internal/infrastructure/repository/model"
	"gorm.io/gorm"
)

type gormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates the postgres backed record store
func NewGormRecordRepository(db *gorm.DB) domainRepo.Store {
	return &gormRecordRepository{db: db}
}

func (r *gormRecordRepository) ListSales(ctx context.Context, ownerID uuid.UUID, rng domainRepo.DateRange) ([]entity.Sale, error) {
	var rows []model.Sale
	err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID), DateScope(rng)).
		Order("date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return model.ToEntities(rows, model.Sale.ToEntity), nil
}

func (r *gormRecordRepository) ListCosts(ctx context.Context, ownerID uuid.UUID, rng domainRepo.DateRange) ([]entity.Cost, error) {
	var rows []model.Cost
	err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID), DateScope(rng)).
		Order("date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list costs: %w", err)
	}
	return model.ToEntities(rows, model.Cost.ToEntity), nil
}

func (r *gormRecordRepository) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]entity.Product, error) {
	var rows []model.Product
	err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return model.ToEntities(rows, model.Product.ToEntity), nil
}

func (r *gormRecordRepository) ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]entity.Customer, error) {
	var rows []model.Customer
	err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return model.ToEntities(rows, model.Customer.ToEntity), nil
}

func (r *gormRecordRepository) ListOwners(ctx context.Context) ([]uuid.UUID, error) {
	var owners []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		SELECT user_id FROM products
		UNION
		SELECT user_id FROM customers
		UNION
		SELECT user_id FROM sales
		ORDER BY user_id
	`).Scan(&owners).Error
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	return owners, nil
}

func (r *gormRecordRepository) GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*entity.Product, error) {
	var row model.Product
	err := r.db.WithContext(ctx).Scopes(OwnerScope(ownerID)).First(&row, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	p := row.ToEntity()
	return &p, nil
}

func (r *gormRecordRepository) GetCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (*entity.Customer, error) {
	var row model.Customer
	err := r.db.WithContext(ctx).Scopes(OwnerScope(ownerID)).First(&row, "id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c := row.ToEntity()
	return &c, nil
}

// RecordSale inserts the sale and, for completed sales, bumps the customer's
// counters in the same transaction. last_order_date only moves forward.
func (r *gormRecordRepository) RecordSale(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	row := model.SaleFromEntity(*sale)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		if sale.IsCompleted() {
			res := tx.Model(&model.Customer{}).
				Scopes(OwnerScope(sale.UserID)).
				Where("id = ?", sale.CustomerID).
				Updates(map[string]interface{}{
					"total_orders":    gorm.Expr("total_orders + 1"),
					"total_spent":     gorm.Expr("total_spent + ?", row.TotalAmount),
					"last_order_date": gorm.Expr("GREATEST(COALESCE(last_order_date, ?), ?)", row.Date, row.Date),
				})
			if res.Error != nil {
				return fmt.Errorf("update customer counters: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("update customer counters: %w", gorm.ErrRecordNotFound)
			}
		}

		*sale = row.ToEntity()
		return nil
	})
}

func (r *gormRecordRepository) Close(context.Context) error {
	return database.ClosePostgres(r.db)
}
