package reports

import (
	"context"
	"time"

	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
)

// PurchaseRow is one purchase joined with its item and student.
// Missing joins come back as empty names and zero costs, never errors.
type PurchaseRow struct {
	PurchaseID  id.ID       `db:"purchase_id"`
	StudentID   id.ID       `db:"student_id"`
	StudentName string      `db:"student_name"`
	ItemID      id.ID       `db:"item_id"`
	ItemName    string      `db:"item_name"`
	ClassLevel  string      `db:"class_level"`
	Subject     string      `db:"subject"`
	Quantity    int         `db:"quantity"`
	UnitPrice   types.Money `db:"unit_price"`
	UnitCost    types.Money `db:"unit_cost"`
	TotalAmount types.Money `db:"total_amount"`
	CreatedAt   time.Time   `db:"created_at"`
}

// ItemRow is the inventory projection of an item.
type ItemRow struct {
	ItemID        id.ID       `db:"item_id"`
	Name          string      `db:"name"`
	ClassLevel    string      `db:"class_level"`
	Subject       string      `db:"subject"`
	SupplierName  string      `db:"supplier_name"`
	UnitPrice     types.Money `db:"unit_price"`
	StockQuantity int         `db:"stock_quantity"`
	MinStock      int         `db:"min_stock"`
}

// SupplyOrderRow is the reporting projection of a supply order.
type SupplyOrderRow struct {
	OrderID     id.ID       `db:"order_id"`
	SupplierID  id.ID       `db:"supplier_id"`
	Status      string      `db:"status"`
	TotalAmount types.Money `db:"total_amount"`
	OrderedAt   time.Time   `db:"ordered_at"`
}

// PaymentRow is the reporting projection of a supplier payment.
type PaymentRow struct {
	SupplierID id.ID       `db:"supplier_id"`
	Amount     types.Money `db:"amount"`
	PaidAt     time.Time   `db:"paid_at"`
}

// SupplierRow names a supplier.
type SupplierRow struct {
	SupplierID id.ID  `db:"supplier_id"`
	Name       string `db:"name"`
}

// StudentRow is the reporting projection of a student.
type StudentRow struct {
	StudentID  id.ID  `db:"student_id"`
	Name       string `db:"name"`
	ClassLevel string `db:"class_level"`
}

// Repository fetches row projections; aggregation happens in the service.
// Time bounds are inclusive; nil means unbounded.
type Repository interface {
	PurchaseRows(ctx context.Context, from, to *time.Time) ([]PurchaseRow, error)
	ItemRows(ctx context.Context) ([]ItemRow, error)
	SupplierRows(ctx context.Context) ([]SupplierRow, error)
	SupplyOrderRows(ctx context.Context, from, to *time.Time) ([]SupplyOrderRow, error)
	PaymentRows(ctx context.Context, from, to *time.Time) ([]PaymentRow, error)
	StudentRows(ctx context.Context) ([]StudentRow, error)
}
