// Package sales provides the purchase lifecycle: every create, update and
// delete of a purchase atomically adjusts item stock and records the change
// in the stock ledger.
package sales

import (
	"context"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
)

// Purchase represents a sale of one item to one student.
type Purchase struct {
	entity.BaseDocument

	// StudentID references the buying student
	StudentID id.ID `db:"student_id" json:"studentId"`

	// ItemID references the sold item
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity of units sold (always positive)
	Quantity int `db:"quantity" json:"quantity"`

	// UnitPrice is the price per unit at the time of sale
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// TotalAmount = Quantity * UnitPrice
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// ReceiptNumber is the unique receipt identifier (RC-YYYY-NNNNN)
	ReceiptNumber string `db:"receipt_number" json:"receiptNumber"`
}

// Validate implements entity.Validatable interface.
func (p *Purchase) Validate(ctx context.Context) error {
	if id.IsNil(p.StudentID) {
		return apperror.NewValidation("student_id is required").
			WithDetail("field", "student_id")
	}
	if id.IsNil(p.ItemID) {
		return apperror.NewValidation("item_id is required").
			WithDetail("field", "item_id")
	}
	if p.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", p.Quantity)
	}
	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unit_price")
	}
	return nil
}

// recalcTotal recomputes TotalAmount from quantity and unit price.
func (p *Purchase) recalcTotal() {
	p.TotalAmount = p.UnitPrice.Mul(types.NewMoneyFromInt(int64(p.Quantity)))
}

// --- Operation parameters ---

// CreatePurchaseParams describes a new purchase.
type CreatePurchaseParams struct {
	StudentID id.ID
	ItemID    id.ID
	Quantity  int

	// UnitPrice overrides the item's current price (discounts).
	// Nil means sell at the item's current price.
	UnitPrice *types.Money
}

// UpdatePurchaseParams describes a purchase modification.
// Nil fields keep their current value.
type UpdatePurchaseParams struct {
	ID        id.ID
	ItemID    *id.ID
	Quantity  *int
	UnitPrice *types.Money
}

// AdjustStockParams describes a manual stock correction or a supply posting.
type AdjustStockParams struct {
	ItemID id.ID
	Delta  int
	Reason string

	// ChangeType defaults to ADJUST; supply receipts post IN.
	ChangeType entity.ChangeType
}

// PurchaseFilter narrows purchase listings.
type PurchaseFilter struct {
	StudentID *id.ID
	ItemID    *id.ID
	From      *time.Time
	To        *time.Time

	Limit  int
	Offset int
}
