// Package procurement provides supply orders and supplier payments: the
// inbound side of stock. Receiving an order posts IN entries through the
// sales service so the stock ledger stays the single history of changes.
package procurement

import (
	"context"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
)

// OrderStatus is the supply order lifecycle state.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusReceived  OrderStatus = "received"
	StatusCancelled OrderStatus = "cancelled"
)

// SupplyOrder represents an order placed with a supplier.
type SupplyOrder struct {
	entity.BaseDocument

	SupplierID  id.ID       `db:"supplier_id" json:"supplierId"`
	OrderNumber string      `db:"order_number" json:"orderNumber"`
	Status      OrderStatus `db:"status" json:"status"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	OrderedAt   time.Time   `db:"ordered_at" json:"orderedAt"`
	ExpectedAt  *time.Time  `db:"expected_at" json:"expectedAt,omitempty"`
	ReceivedAt  *time.Time  `db:"received_at" json:"receivedAt,omitempty"`

	// Lines are loaded with the order
	Lines []SupplyOrderLine `db:"-" json:"lines,omitempty"`
}

// SupplyOrderLine is one item position on a supply order.
type SupplyOrderLine struct {
	ID       id.ID       `db:"id" json:"id"`
	OrderID  id.ID       `db:"order_id" json:"orderId"`
	ItemID   id.ID       `db:"item_id" json:"itemId"`
	Quantity int         `db:"quantity" json:"quantity"`
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`
}

// SupplierPayment records money paid to a supplier.
type SupplierPayment struct {
	ID         id.ID       `db:"id" json:"id"`
	SupplierID id.ID       `db:"supplier_id" json:"supplierId"`
	Amount     types.Money `db:"amount" json:"amount"`
	PaidAt     time.Time   `db:"paid_at" json:"paidAt"`
	Method     string      `db:"method" json:"method,omitempty"`
	Reference  string      `db:"reference" json:"reference,omitempty"`
}

// Validate implements entity.Validatable interface.
func (o *SupplyOrder) Validate(ctx context.Context) error {
	if id.IsNil(o.SupplierID) {
		return apperror.NewValidation("supplier_id is required").
			WithDetail("field", "supplier_id")
	}
	if len(o.Lines) == 0 {
		return apperror.NewValidation("order requires at least one line").
			WithDetail("field", "lines")
	}
	for i, line := range o.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("line item_id is required").
				WithDetail("line", i)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("value", line.Quantity)
		}
		if line.UnitCost.IsNegative() {
			return apperror.NewValidation("line unit cost cannot be negative").
				WithDetail("line", i)
		}
	}
	return nil
}

// recalcTotal recomputes TotalAmount from the lines.
func (o *SupplyOrder) recalcTotal() {
	total := types.Zero()
	for _, line := range o.Lines {
		total = total.Add(line.UnitCost.Mul(types.NewMoneyFromInt(int64(line.Quantity))))
	}
	o.TotalAmount = total
}

// OrderFilter narrows supply order listings.
type OrderFilter struct {
	SupplierID *id.ID
	Status     *OrderStatus
	From       *time.Time
	To         *time.Time

	Limit  int
	Offset int
}

// PaymentFilter narrows supplier payment listings.
type PaymentFilter struct {
	SupplierID *id.ID
	From       *time.Time
	To         *time.Time

	Limit  int
	Offset int
}
