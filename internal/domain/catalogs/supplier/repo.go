package supplier

import (
	"context"

	"bookstock/internal/domain"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// FindByName retrieves a supplier by exact display name.
	FindByName(ctx context.Context, name string) (*Supplier, error)
}
