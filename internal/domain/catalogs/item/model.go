// Package item provides the bookstore item catalog: textbooks, workbooks
// and other stock-tracked goods sold to students.
package item

import (
	"context"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/types"
)

// Item represents a stock-tracked good in the bookstore.
//
// StockQuantity is never written directly by callers: it changes only
// through the sales service, which pairs every change with a ledger entry.
type Item struct {
	entity.Catalog

	// ClassLevel the item is intended for (e.g., "Grade 5")
	ClassLevel string `db:"class_level" json:"classLevel"`

	// Subject categorizes the item (e.g., "Mathematics")
	Subject string `db:"subject" json:"subject"`

	// UnitPrice is the selling price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// UnitCost is the acquisition cost per unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// StockQuantity is the current on-hand quantity (never negative)
	StockQuantity int `db:"stock_quantity" json:"stockQuantity"`

	// MinStock is the reorder threshold
	MinStock int `db:"min_stock" json:"minStock"`

	// SupplierName is the display name of the supplying vendor
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`
}

// New creates a new Item with required fields.
func New(code, name string, unitPrice, unitCost types.Money) *Item {
	return &Item{
		Catalog:   entity.NewCatalog(code, name),
		UnitPrice: unitPrice,
		UnitCost:  unitCost,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	if i.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}

	if i.StockQuantity < 0 {
		return apperror.NewValidation("stock quantity cannot be negative").
			WithDetail("field", "stockQuantity")
	}

	if i.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}

	return nil
}

// IsLowStock returns true if on-hand quantity is at or below the threshold.
func (i *Item) IsLowStock() bool {
	return i.StockQuantity <= i.MinStock
}

// IsOutOfStock returns true if nothing is on hand.
func (i *Item) IsOutOfStock() bool {
	return i.StockQuantity == 0
}

// Margin returns the per-unit profit (price minus cost).
func (i *Item) Margin() types.Money {
	return i.UnitPrice.Sub(i.UnitCost)
}
