package procurement

import (
	"context"

	"bookstock/internal/core/id"
)

// Repository defines the interface for procurement persistence.
type Repository interface {
	// CreateOrder inserts an order with its lines.
	CreateOrder(ctx context.Context, order *SupplyOrder) error

	// GetOrder retrieves an order with lines.
	GetOrder(ctx context.Context, id id.ID) (*SupplyOrder, error)

	// UpdateOrderStatus transitions an order with an optimistic version
	// check and records the received timestamp for received orders.
	UpdateOrderStatus(ctx context.Context, order *SupplyOrder) error

	// ListOrders retrieves orders matching the filter, newest first.
	ListOrders(ctx context.Context, filter OrderFilter) ([]*SupplyOrder, error)

	// CreatePayment records a supplier payment.
	CreatePayment(ctx context.Context, payment *SupplierPayment) error

	// ListPayments retrieves payments matching the filter, newest first.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]*SupplierPayment, error)
}
