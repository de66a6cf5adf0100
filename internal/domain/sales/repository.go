package sales

import (
	"context"

	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/catalogs/item"
)

// Repository defines the interface for Purchase persistence.
type Repository interface {
	// Create inserts a new purchase.
	Create(ctx context.Context, p *Purchase) error

	// GetByID retrieves a purchase by ID.
	GetByID(ctx context.Context, id id.ID) (*Purchase, error)

	// GetByReceipt retrieves a purchase by receipt number.
	GetByReceipt(ctx context.Context, receipt string) (*Purchase, error)

	// Update persists a modified purchase with an optimistic version
	// check. Returns apperror.CodeConcurrentModification when the stored
	// version no longer matches.
	Update(ctx context.Context, p *Purchase) error

	// Delete removes the purchase row. Ledger entries referencing the
	// receipt are left in place.
	Delete(ctx context.Context, id id.ID) error

	// List retrieves purchases matching the filter, newest first.
	List(ctx context.Context, filter PurchaseFilter) ([]*Purchase, error)

	// Count returns the number of purchases matching the filter.
	Count(ctx context.Context, filter PurchaseFilter) (int64, error)
}

// ItemStore is the slice of the item repository the sales service needs.
type ItemStore interface {
	// GetByID retrieves the item.
	GetByID(ctx context.Context, id id.ID) (*item.Item, error)

	// AdjustStock atomically applies delta to the item's stock quantity,
	// refusing changes that would drive it negative.
	AdjustStock(ctx context.Context, id id.ID, delta int) error
}

// StudentChecker verifies that a student exists.
type StudentChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// LedgerAppender appends validated entries to the stock ledger.
type LedgerAppender interface {
	Append(ctx context.Context, entry *entity.StockEntry) error
}
