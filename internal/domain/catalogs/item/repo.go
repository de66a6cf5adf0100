package item

import (
	"context"

	"bookstock/internal/core/id"
	"bookstock/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetForUpdate retrieves item with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Item, error)

	// AdjustStock atomically applies delta to stock_quantity, refusing
	// any change that would drive the quantity negative. Returns
	// apperror.CodeInsufficientStock when the guard rejects the change.
	AdjustStock(ctx context.Context, id id.ID, delta int) error

	// FindLowStock retrieves items with stock at or below their minimum.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error)
}
