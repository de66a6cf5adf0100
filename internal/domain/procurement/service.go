package procurement

import (
	"context"
	"fmt"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/numerator"
	"bookstock/internal/core/tx"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/sales"
	"bookstock/pkg/logger"
)

// StockPoster posts inbound stock through the sales service so every
// received line lands in the stock ledger.
type StockPoster interface {
	AdjustStock(ctx context.Context, params sales.AdjustStockParams) error
}

// SupplierChecker verifies that a supplier exists.
type SupplierChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// CreateOrderParams describes a new supply order.
type CreateOrderParams struct {
	SupplierID id.ID
	ExpectedAt *time.Time
	Lines      []OrderLineParams
}

// OrderLineParams is one item position of a new order.
type OrderLineParams struct {
	ItemID   id.ID
	Quantity int
	UnitCost types.Money
}

// RecordPaymentParams describes a supplier payment.
type RecordPaymentParams struct {
	SupplierID id.ID
	Amount     types.Money
	Method     string
	Reference  string
	PaidAt     *time.Time
}

// Service provides supply order and payment workflows.
type Service struct {
	repo      Repository
	suppliers SupplierChecker
	stock     StockPoster
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new procurement service.
func NewService(
	repo Repository,
	suppliers SupplierChecker,
	stock StockPoster,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		suppliers: suppliers,
		stock:     stock,
		txManager: txManager,
		numerator: gen,
	}
}

// CreateOrder places a new pending supply order.
func (s *Service) CreateOrder(ctx context.Context, params CreateOrderParams) (*SupplyOrder, error) {
	order := &SupplyOrder{
		BaseDocument: entity.NewBaseDocument(),
		SupplierID:   params.SupplierID,
		Status:       StatusPending,
		OrderedAt:    time.Now().UTC(),
		ExpectedAt:   params.ExpectedAt,
	}
	for _, line := range params.Lines {
		order.Lines = append(order.Lines, SupplyOrderLine{
			ID:       id.New(),
			OrderID:  order.ID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			UnitCost: line.UnitCost,
		})
	}

	if err := order.Validate(ctx); err != nil {
		return nil, err
	}
	order.recalcTotal()

	exists, err := s.suppliers.Exists(ctx, params.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("check supplier: %w", err)
	}
	if !exists {
		return nil, apperror.NewNotFound("supplier", params.SupplierID.String())
	}

	// Internal document numbers tolerate gaps, so the cached strategy is fine.
	number, err := s.numerator.GetNextNumber(ctx,
		numerator.DefaultConfig(numerator.PrefixSupplyOrder),
		&numerator.Options{Strategy: numerator.StrategyCached},
		time.Now())
	if err != nil {
		return nil, apperror.NewAllocation(numerator.PrefixSupplyOrder, err)
	}
	order.OrderNumber = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supply order created",
		"order_id", order.ID.String(),
		"order_number", order.OrderNumber,
		"supplier_id", order.SupplierID.String(),
		"lines", len(order.Lines),
	)

	return order, nil
}

// ReceiveOrder marks a pending order as received and posts every line as
// an IN ledger entry. The status change and all stock postings commit
// together or not at all.
func (s *Service) ReceiveOrder(ctx context.Context, orderID id.ID) (*SupplyOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != StatusPending {
		return nil, apperror.NewConflict("order is not pending").
			WithDetail("order_id", orderID.String()).
			WithDetail("status", string(order.Status))
	}

	now := time.Now().UTC()
	order.Status = StatusReceived
	order.ReceivedAt = &now
	order.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, line := range order.Lines {
			err := s.stock.AdjustStock(ctx, sales.AdjustStockParams{
				ItemID:     line.ItemID,
				Delta:      line.Quantity,
				Reason:     order.OrderNumber,
				ChangeType: entity.ChangeTypeIn,
			})
			if err != nil {
				return err
			}
		}
		return s.repo.UpdateOrderStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supply order received",
		"order_id", order.ID.String(),
		"order_number", order.OrderNumber,
	)

	return order, nil
}

// CancelOrder marks a pending order as cancelled. No stock moves.
func (s *Service) CancelOrder(ctx context.Context, orderID id.ID) (*SupplyOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != StatusPending {
		return nil, apperror.NewConflict("order is not pending").
			WithDetail("order_id", orderID.String()).
			WithDetail("status", string(order.Status))
	}

	order.Status = StatusCancelled
	order.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.UpdateOrderStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supply order cancelled",
		"order_id", order.ID.String(),
		"order_number", order.OrderNumber,
	)

	return order, nil
}

// GetOrder retrieves an order with lines.
func (s *Service) GetOrder(ctx context.Context, orderID id.ID) (*SupplyOrder, error) {
	return s.getOrder(ctx, orderID)
}

// ListOrders retrieves orders matching the filter, newest first.
func (s *Service) ListOrders(ctx context.Context, filter OrderFilter) ([]*SupplyOrder, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListOrders(ctx, filter)
}

// RecordPayment records a payment made to a supplier.
func (s *Service) RecordPayment(ctx context.Context, params RecordPaymentParams) (*SupplierPayment, error) {
	if id.IsNil(params.SupplierID) {
		return nil, apperror.NewValidation("supplier_id is required").
			WithDetail("field", "supplier_id")
	}
	if !params.Amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	exists, err := s.suppliers.Exists(ctx, params.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("check supplier: %w", err)
	}
	if !exists {
		return nil, apperror.NewNotFound("supplier", params.SupplierID.String())
	}

	paidAt := time.Now().UTC()
	if params.PaidAt != nil {
		paidAt = *params.PaidAt
	}

	payment := &SupplierPayment{
		ID:         id.New(),
		SupplierID: params.SupplierID,
		Amount:     params.Amount,
		PaidAt:     paidAt,
		Method:     params.Method,
		Reference:  params.Reference,
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supplier payment recorded",
		"payment_id", payment.ID.String(),
		"supplier_id", payment.SupplierID.String(),
		"amount", payment.Amount.String(),
	)

	return payment, nil
}

// ListPayments retrieves payments matching the filter, newest first.
func (s *Service) ListPayments(ctx context.Context, filter PaymentFilter) ([]*SupplierPayment, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListPayments(ctx, filter)
}

func (s *Service) getOrder(ctx context.Context, orderID id.ID) (*SupplyOrder, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("supply order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}
