package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/sangkips/bizcoach-api/internal/domain/repository"
	"github.com/sangkips/bizcoach-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService records sales and keeps the customer counters in step
type SaleService struct {
	store  repository.SaleRecorder
	logger *zap.Logger
	now    func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(store repository.SaleRecorder, logger *zap.Logger, opts ...Option) *SaleService {
	o := buildOptions(opts)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{store: store, logger: logger, now: o.now}
}

// RecordSaleInput represents input for recording a sale
type RecordSaleInput struct {
	OwnerID      uuid.UUID
	CustomerID   uuid.UUID
	ProductID    uuid.UUID
	Quantity     int
	Date         *time.Time
	Status       enum.SaleStatus
	SalesChannel *string
}

// RecordSale snapshots the product sell price into the sale and persists it
func (s *SaleService) RecordSale(ctx context.Context, input *RecordSaleInput) (*entity.Sale, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "must be greater than zero"},
		})
	}
	status := input.Status
	if status == "" {
		status = enum.SaleStatusCompleted
	}
	if !status.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "status", Message: "must be one of completed, pending, canceled"},
		})
	}

	product, err := s.store.GetProduct(ctx, input.OwnerID, input.ProductID)
	if err != nil {
		return nil, apperror.NewStoreError(err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	customer, err := s.store.GetCustomer(ctx, input.OwnerID, input.CustomerID)
	if err != nil {
		return nil, apperror.NewStoreError(err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	now := s.now()
	date := now
	if input.Date != nil {
		date = *input.Date
	}

	unitPrice := decimal.NewFromFloat(product.SellPrice).Round(2)
	total := unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2)

	sale := &entity.Sale{
		ID:           uuid.New(),
		UserID:       input.OwnerID,
		Date:         date,
		CustomerID:   customer.ID,
		ProductID:    product.ID,
		Quantity:     input.Quantity,
		UnitPrice:    unitPrice.InexactFloat64(),
		TotalAmount:  total.InexactFloat64(),
		Status:       status,
		SalesChannel: input.SalesChannel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.RecordSale(ctx, sale); err != nil {
		s.logger.Error("failed to record sale",
			zap.String("owner_id", input.OwnerID.String()),
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
		return nil, apperror.NewStoreError(err)
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("owner_id", sale.UserID.String()),
		zap.String("status", sale.Status.String()),
		zap.Float64("total_amount", sale.TotalAmount),
	)
	return sale, nil
}
